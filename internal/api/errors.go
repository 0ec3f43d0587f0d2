package api

import (
	"errors"
	"net/http"

	"hygio/internal/faults"
	"hygio/internal/models"
)

// writeError — единая проекция таксономии ошибок ядра на HTTP.
// "Не найдено" и "чужое" — один и тот же 404, см. faults.
func writeError(w http.ResponseWriter, err error) {
	var v *faults.Validation
	if errors.As(err, &v) {
		models.WriteFieldProblem(w, http.StatusBadRequest, "Validation Failed", v.Fields)
		return
	}
	switch {
	case errors.Is(err, faults.ErrAuthentication):
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "", nil)
	case errors.Is(err, faults.ErrNotFoundOrForbidden):
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "", nil)
	case errors.Is(err, faults.ErrConflict):
		models.WriteProblem(w, http.StatusConflict, "Conflict", "resource already exists", nil)
	case errors.Is(err, faults.ErrIdentityIntegrity):
		models.WriteProblem(w, http.StatusUnprocessableEntity, "Identity Integrity",
			"inherited SIRET does not resolve to a live admin_client", nil)
	default:
		var d *faults.DependencyError
		if errors.As(err, &d) {
			models.WriteProblem(w, http.StatusBadGateway, "Dependency Failure", "backend unavailable", nil)
			return
		}
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "", nil)
	}
}
