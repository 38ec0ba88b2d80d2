package api

import (
	"net/http"

	"procrastination-tracker/internal/services"
)

type createTaskRequest struct {
	UserID int64 `json:"user_id"`
	services.TaskRequest
}

type startTaskRequest struct {
	ActualStart string `json:"actual_start"`
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	tasks, err := h.services.Task.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == 0 {
		userID, err := queryUserID(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		req.UserID = userID
	}

	task, err := h.services.Task.Create(r.Context(), req.UserID, req.TaskRequest)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.userAndPathID(w, r)
	if !ok {
		return
	}
	task, err := h.services.Task.Get(r.Context(), userID, taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.userAndPathID(w, r)
	if !ok {
		return
	}
	var req services.TaskRequest
	if !decode(w, r, &req) {
		return
	}
	task, err := h.services.Task.Update(r.Context(), userID, taskID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.userAndPathID(w, r)
	if !ok {
		return
	}
	if err := h.services.Task.Delete(r.Context(), userID, taskID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// startTask accepts an empty body, in which case the task starts now.
func (h *Handler) startTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.userAndPathID(w, r)
	if !ok {
		return
	}
	var req startTaskRequest
	if r.ContentLength > 0 && !decode(w, r, &req) {
		return
	}
	if err := h.services.Task.Start(r.Context(), userID, taskID, req.ActualStart); err != nil {
		writeError(w, r, err)
		return
	}
	task, err := h.services.Task.Get(r.Context(), userID, taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) completeTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.userAndPathID(w, r)
	if !ok {
		return
	}
	var req services.CompleteRequest
	if r.ContentLength > 0 && !decode(w, r, &req) {
		return
	}
	outcome, err := h.services.Task.Complete(r.Context(), userID, taskID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}
