package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"breakd/internal/models"
	"breakd/internal/services"
)

const maxRequestBodySize = 1 << 16

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeServiceError maps validation failures to 400 and everything else,
// which can only be store trouble, to 503.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "settings store unavailable"})
}

// decodeBody reads an optional JSON body; an empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// senderFromRequest identifies the calling tab from the X-Tab-Id header or
// the tab query parameter. Both are optional.
func senderFromRequest(r *http.Request) (models.Sender, error) {
	raw := r.Header.Get("X-Tab-Id")
	if raw == "" {
		raw = r.URL.Query().Get("tab")
	}
	sender := models.Sender{URL: r.URL.Query().Get("url")}
	if raw == "" {
		return sender, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return sender, errors.New("invalid tab id")
	}
	sender.Tab = models.TabID(id)
	return sender, nil
}
