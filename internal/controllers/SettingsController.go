package controllers

import (
	"net/http"

	"breakd/internal/providers"
	"breakd/internal/services"
)

type domainRequest struct {
	Action string `json:"action"`
	Domain string `json:"domain"`
}

type SettingsController struct {
	logger  providers.Logger
	service services.SettingsServiceInterface
}

func NewSettingsController(logger providers.Logger, service services.SettingsServiceInterface) *SettingsController {
	return &SettingsController{
		logger:  logger,
		service: service,
	}
}

func (sc *SettingsController) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := sc.service.Get(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (sc *SettingsController) Update(w http.ResponseWriter, r *http.Request) {
	var upd services.SettingsUpdate
	if err := decodeBody(w, r, &upd); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	cfg, err := sc.service.Update(r.Context(), upd)
	if err != nil {
		sc.logger.Warnf(providers.TypePost, "Settings update rejected: %s", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (sc *SettingsController) Toggle(w http.ResponseWriter, r *http.Request) {
	cfg, err := sc.service.Toggle(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (sc *SettingsController) Domains(w http.ResponseWriter, r *http.Request) {
	var req domainRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Action {
	case "add":
		_, err = sc.service.AddDomain(r.Context(), req.Domain)
	case "remove":
		_, err = sc.service.RemoveDomain(r.Context(), req.Domain)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "action must be add or remove"})
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	sc.Get(w, r)
}
