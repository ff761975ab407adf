package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/whyteferrari/RECALLR/internal/services"
)

// TaskHandler provides HTTP handlers for study tasks.
type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// TaskRouter registers task routes. Tasks are always scoped to the caller.
func TaskRouter(r chi.Router, taskService *services.TaskService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewTaskHandler(taskService)

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}
	r.Get("/", handler.ListTasks)
	r.Post("/", handler.CreateTask)
	r.Route("/{taskID}", func(r chi.Router) {
		r.Patch("/", handler.UpdateTask)
		r.Delete("/", handler.DeleteTask)
	})
}

type TaskCreatedResponse struct {
	Message string `json:"message"`
	TaskID  int    `json:"task_id"`
}

type TaskUpdateRequest struct {
	Completed *bool `json:"completed"`
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	tasks, err := h.taskService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "task")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusCreated, TaskCreatedResponse{Message: "Task added successfully", TaskID: task.ID})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, err := parseIDParam(r, "taskID", "task")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req TaskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Completed == nil {
		writeError(w, http.StatusBadRequest, "completed is required")
		return
	}

	if err := h.taskService.SetCompleted(r.Context(), userID, taskID, *req.Completed); err != nil {
		writeServiceError(w, r, err, "task")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Task updated"})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, err := parseIDParam(r, "taskID", "task")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, taskID); err != nil {
		writeServiceError(w, r, err, "task")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Task deleted"})
}
