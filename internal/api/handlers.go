package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"hygio/internal/alerts"
	"hygio/internal/auth"
	"hygio/internal/faults"
	"hygio/internal/models"
	"hygio/internal/records"
	"hygio/internal/repo"
)

// максимальный размер медиа-файла в multipart-загрузке
const maxUploadBytes = 20 << 20

type Handler struct {
	Auth         *auth.Service
	Temperatures *records.Temperatures
	Equipments   *records.Equipments
	Media        *records.Media
	Alerts       *alerts.Manager
}

/* ---------- auth ---------- */

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Siret    string `json:"siret"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, faults.NewValidation("body", "malformed json"))
		return
	}
	m, err := h.Auth.RegisterAdmin(r.Context(), req.Email, req.Password, req.Siret)
	if err != nil {
		writeError(w, err)
		return
	}
	// повторная регистрация отдаёт существующий профиль с тем же 200
	models.WriteJSON(w, http.StatusOK, m)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, faults.NewValidation("body", "malformed json"))
		return
	}
	token, m, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"token": token, "profile": m})
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, faults.NewValidation("body", "malformed json"))
		return
	}
	m, err := h.Auth.RegisterEmployee(r.Context(), identityFrom(r), req.Email, req.Password, req.Siret)
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, m)
}

/* ---------- temperatures ---------- */

type temperatureRequest struct {
	Siret       string    `json:"siret,omitempty"` // только super_admin
	Kind        string    `json:"kind"`
	Location    string    `json:"location"`
	Temperature float64   `json:"temperature"`
	CapturedAt  time.Time `json:"captured_at"`
	Notes       string    `json:"notes,omitempty"`
}

func (h *Handler) CreateTemperature(w http.ResponseWriter, r *http.Request) {
	var req temperatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, faults.NewValidation("body", "malformed json"))
		return
	}
	m, err := h.Temperatures.Create(r.Context(), identityFrom(r), records.TemperatureInput{
		TargetSiret: req.Siret,
		Kind:        req.Kind,
		Location:    req.Location,
		Temperature: req.Temperature,
		CapturedAt:  req.CapturedAt,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) ListTemperatures(w http.ResponseWriter, r *http.Request) {
	f := repo.ListFilter{
		Kind:     r.URL.Query().Get("kind"),
		Location: r.URL.Query().Get("location"),
	}
	if s := r.URL.Query().Get("from"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			f.From = &t
		}
	}
	if s := r.URL.Query().Get("to"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			f.To = &t
		}
	}
	out, err := h.Temperatures.List(r.Context(), identityFrom(r), targetSiret(r), f)
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetTemperature(w http.ResponseWriter, r *http.Request) {
	m, err := h.Temperatures.Get(r.Context(), identityFrom(r), targetSiret(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, m)
}

type temperaturePatchRequest struct {
	Kind        *string    `json:"kind"`
	Location    *string    `json:"location"`
	Temperature *float64   `json:"temperature"`
	CapturedAt  *time.Time `json:"captured_at"`
	Notes       *string    `json:"notes"`
}

func (h *Handler) UpdateTemperature(w http.ResponseWriter, r *http.Request) {
	var req temperaturePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, faults.NewValidation("body", "malformed json"))
		return
	}
	m, err := h.Temperatures.Update(r.Context(), identityFrom(r), targetSiret(r), mux.Vars(r)["id"], repo.TemperaturePatch{
		Kind:        req.Kind,
		Location:    req.Location,
		Temperature: req.Temperature,
		CapturedAt:  req.CapturedAt,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteTemperature(w http.ResponseWriter, r *http.Request) {
	if err := h.Temperatures.Delete(r.Context(), identityFrom(r), targetSiret(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ---------- equipment ---------- */

type equipmentRequest struct {
	Siret           string  `json:"siret,omitempty"`
	Name            string  `json:"name"`
	Kind            string  `json:"kind"`
	TemperatureKind string  `json:"temperature_kind"`
	MinTemp         float64 `json:"min_temp"`
	MaxTemp         float64 `json:"max_temp"`
}

func (h *Handler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, faults.NewValidation("body", "malformed json"))
		return
	}
	m, err := h.Equipments.Create(r.Context(), identityFrom(r), records.EquipmentInput{
		TargetSiret:     req.Siret,
		Name:            req.Name,
		Kind:            req.Kind,
		TemperatureKind: req.TemperatureKind,
		MinTemp:         req.MinTemp,
		MaxTemp:         req.MaxTemp,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) ListEquipments(w http.ResponseWriter, r *http.Request) {
	out, err := h.Equipments.List(r.Context(), identityFrom(r), targetSiret(r))
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	m, err := h.Equipments.Get(r.Context(), identityFrom(r), targetSiret(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, m)
}

type equipmentPatchRequest struct {
	Name            *string  `json:"name"`
	Kind            *string  `json:"kind"`
	TemperatureKind *string  `json:"temperature_kind"`
	MinTemp         *float64 `json:"min_temp"`
	MaxTemp         *float64 `json:"max_temp"`
}

func (h *Handler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	var req equipmentPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, faults.NewValidation("body", "malformed json"))
		return
	}
	m, err := h.Equipments.Update(r.Context(), identityFrom(r), targetSiret(r), mux.Vars(r)["id"], repo.EquipmentPatch{
		Name:            req.Name,
		Kind:            req.Kind,
		TemperatureKind: req.TemperatureKind,
		MinTemp:         req.MinTemp,
		MaxTemp:         req.MaxTemp,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	if err := h.Equipments.Delete(r.Context(), identityFrom(r), targetSiret(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ---------- media ---------- */

// CreateMedia принимает multipart/form-data: файл в поле file,
// остальное — обычные поля формы.
func (h *Handler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, faults.NewValidation("body", "malformed multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, faults.NewValidation("file", "required"))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil || len(data) > maxUploadBytes {
		writeError(w, faults.NewValidation("file", "unreadable or too large"))
		return
	}

	in := records.MediaInput{
		TargetSiret: r.FormValue("siret"),
		Kind:        r.FormValue("kind"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
		Data:        data,
	}
	if s := r.FormValue("captured_at"); s != "" {
		if t, perr := time.Parse(time.RFC3339, s); perr == nil {
			in.CapturedAt = t
		}
	}
	m, err := h.Media.Create(r.Context(), identityFrom(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	out, err := h.Media.List(r.Context(), identityFrom(r), targetSiret(r), r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) DownloadMedia(w http.ResponseWriter, r *http.Request) {
	_, data, ct, err := h.Media.Open(r.Context(), identityFrom(r), targetSiret(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type mediaPatchRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

func (h *Handler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	var req mediaPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, faults.NewValidation("body", "malformed json"))
		return
	}
	m, err := h.Media.Update(r.Context(), identityFrom(r), targetSiret(r), mux.Vars(r)["id"], repo.MediaPatch{
		Title:       req.Title,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	if err := h.Media.Delete(r.Context(), identityFrom(r), targetSiret(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ---------- alerts ---------- */

func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	out, err := h.Alerts.List(r.Context(), identityFrom(r), targetSiret(r))
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) MarkAlertRead(w http.ResponseWriter, r *http.Request) {
	a, err := h.Alerts.MarkRead(r.Context(), identityFrom(r), targetSiret(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, a)
}
