// Package health — liveness и readiness сервиса учёта.
// Ответы в том же формате, что и остальной API: JSON для успеха,
// problem+json для отказа.
package health

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"hygio/internal/models"
)

// RegisterRoutes — только liveness (процесс жив).
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", liveness).Methods(http.MethodGet)
}

// RegisterRoutesWithDB — liveness + readiness. Готовность означает
// "записи принимаются": без БД сервис не готов, пусть балансировщик
// выводит его из ротации.
func RegisterRoutesWithDB(r *mux.Router, db *gorm.DB) {
	RegisterRoutes(r)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if db == nil {
			models.WriteProblem(w, http.StatusServiceUnavailable, "Not Ready", "database not configured", nil)
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			models.WriteProblem(w, http.StatusServiceUnavailable, "Not Ready", "database handle error", nil)
			return
		}
		if err := sqlDB.Ping(); err != nil {
			models.WriteProblem(w, http.StatusServiceUnavailable, "Not Ready", "database unreachable", nil)
			return
		}
		models.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}).Methods(http.MethodGet)
}

func liveness(w http.ResponseWriter, _ *http.Request) {
	models.WriteJSON(w, http.StatusOK, map[string]string{"status": "up"})
}
