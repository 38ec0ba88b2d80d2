package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// queryUserID returns 0 when user_id is absent so the services can report
// the missing parameter themselves.
func queryUserID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user_id %q", raw)
	}
	return id, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func (h *Handler) userAndPathID(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, err := queryUserID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	return userID, id, true
}
