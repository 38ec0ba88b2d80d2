package api

import (
	"net/http"

	"procrastination-tracker/internal/services"
)

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.services.Procrastination.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) createLog(w http.ResponseWriter, r *http.Request) {
	var req services.LogRequest
	if !decode(w, r, &req) {
		return
	}
	entry, err := h.services.Procrastination.Log(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) getLog(w http.ResponseWriter, r *http.Request) {
	userID, logID, ok := h.userAndPathID(w, r)
	if !ok {
		return
	}
	entry, err := h.services.Procrastination.Get(r.Context(), userID, logID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) listReasons(w http.ResponseWriter, r *http.Request) {
	reasons, err := h.services.Procrastination.Reasons(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reasons)
}

func (h *Handler) listEmotions(w http.ResponseWriter, r *http.Request) {
	emotions, err := h.services.Procrastination.Emotions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emotions)
}
