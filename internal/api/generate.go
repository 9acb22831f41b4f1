package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"example.com/topform/internal/generator"
)

// GenerateRequest is the payload for POST /generate.
type GenerateRequest struct {
	InputText string `json:"inputText"`
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "generator_unavailable", "generation service not configured")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if strings.TrimSpace(req.InputText) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "inputText is required")
		return
	}

	resp, err := h.generator.Generate(r.Context(), req.InputText)
	if err != nil {
		if errors.Is(err, generator.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "generator_unavailable", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	if !resp.OK() {
		if resp.ContentType != "" {
			w.Header().Set("Content-Type", resp.ContentType)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write(resp.Body)
		return
	}

	if json.Valid(resp.Body) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(resp.Body)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"generatedText": string(resp.Body)})
}

func (h *Handler) generatorStatus(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "generator_unavailable", "generation service not configured")
		return
	}
	writeJSON(w, http.StatusOK, h.generator.Check(r.Context()))
}
