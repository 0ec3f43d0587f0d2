package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes вешает публичные и защищённые маршруты.
func RegisterRoutes(r *mux.Router, h *Handler, jwtSecret []byte) {
	api := r.PathPrefix("/api/v1").Subrouter()

	// публичные
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	// всё остальное — только с токеном
	priv := api.NewRoute().Subrouter()
	priv.Use(BearerAuth(jwtSecret))

	priv.HandleFunc("/employees", h.CreateEmployee).Methods(http.MethodPost)

	priv.HandleFunc("/temperatures", h.CreateTemperature).Methods(http.MethodPost)
	priv.HandleFunc("/temperatures", h.ListTemperatures).Methods(http.MethodGet)
	priv.HandleFunc("/temperatures/{id:[a-fA-F0-9\\-]{36}}", h.GetTemperature).Methods(http.MethodGet)
	priv.HandleFunc("/temperatures/{id:[a-fA-F0-9\\-]{36}}", h.UpdateTemperature).Methods(http.MethodPatch)
	priv.HandleFunc("/temperatures/{id:[a-fA-F0-9\\-]{36}}", h.DeleteTemperature).Methods(http.MethodDelete)

	priv.HandleFunc("/equipments", h.CreateEquipment).Methods(http.MethodPost)
	priv.HandleFunc("/equipments", h.ListEquipments).Methods(http.MethodGet)
	priv.HandleFunc("/equipments/{id:[a-fA-F0-9\\-]{36}}", h.GetEquipment).Methods(http.MethodGet)
	priv.HandleFunc("/equipments/{id:[a-fA-F0-9\\-]{36}}", h.UpdateEquipment).Methods(http.MethodPatch)
	priv.HandleFunc("/equipments/{id:[a-fA-F0-9\\-]{36}}", h.DeleteEquipment).Methods(http.MethodDelete)

	priv.HandleFunc("/media", h.CreateMedia).Methods(http.MethodPost)
	priv.HandleFunc("/media", h.ListMedia).Methods(http.MethodGet)
	priv.HandleFunc("/media/{id:[a-fA-F0-9\\-]{36}}/file", h.DownloadMedia).Methods(http.MethodGet)
	priv.HandleFunc("/media/{id:[a-fA-F0-9\\-]{36}}", h.UpdateMedia).Methods(http.MethodPatch)
	priv.HandleFunc("/media/{id:[a-fA-F0-9\\-]{36}}", h.DeleteMedia).Methods(http.MethodDelete)

	priv.HandleFunc("/alerts", h.ListAlerts).Methods(http.MethodGet)
	priv.HandleFunc("/alerts/{id:[a-fA-F0-9\\-]{36}}/read", h.MarkAlertRead).Methods(http.MethodPost)
}
