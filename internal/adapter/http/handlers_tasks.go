package adapthttp

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"pomodoro/internal/domain"
)

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	switch r.Method {
	case http.MethodGet:
		tasks, err := s.tasks.List(r.Context(), user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if tasks == nil {
			tasks = []domain.Task{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})

	case http.MethodPost:
		var body struct {
			Title        string `json:"title"`
			Priority     string `json:"priority"`
			Due          string `json:"due"`
			EstimatePoms int    `json:"estimatePoms"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		due, err := parseDueOrNil(body.Due)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		task, err := s.tasks.Create(r.Context(), user.ID, body.Title, body.Priority, due, body.EstimatePoms)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"task": task})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	id := strings.TrimPrefix(r.URL.Path, "/tasks/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var body struct {
			Title        *string `json:"title"`
			Status       *string `json:"status"`
			Priority     *string `json:"priority"`
			Due          *string `json:"due"`
			EstimatePoms *int    `json:"estimatePoms"`
			ActualPoms   *int    `json:"actualPoms"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		patch := domain.TaskPatch{
			Title:        body.Title,
			Status:       body.Status,
			Priority:     body.Priority,
			EstimatePoms: body.EstimatePoms,
			ActualPoms:   body.ActualPoms,
		}
		if body.Due != nil {
			// An empty string clears the due date.
			patch.DueSet = true
			if *body.Due != "" {
				due, err := parseDueOrNil(*body.Due)
				if err != nil {
					writeError(w, http.StatusBadRequest, err)
					return
				}
				patch.Due = due
			}
		}

		task, err := s.tasks.Update(r.Context(), user.ID, id, patch)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"task": task})

	case http.MethodDelete:
		if err := s.tasks.Delete(r.Context(), user.ID, id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func parseDueOrNil(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errors.New("due must be an ISO-8601 timestamp")
	}
	return &t, nil
}
