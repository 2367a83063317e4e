package adapthttp

import (
	"errors"
	"net/http"
	"time"

	"pomodoro/internal/domain"
)

func (s *Server) handleSessionSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r)

	var body struct {
		Duration    int    `json:"duration"`
		Mode        string `json:"mode"`
		TaskID      string `json:"taskId"`
		CompletedAt string `json:"completedAt"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var completedAt time.Time
	if body.CompletedAt != "" {
		t, err := time.Parse(time.RFC3339, body.CompletedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("completedAt must be an ISO-8601 timestamp"))
			return
		}
		completedAt = t
	}

	sess, err := s.sessions.Record(r.Context(), user.ID, body.Duration, domain.Mode(body.Mode), body.TaskID, completedAt)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"session": sess})
}

func (s *Server) handleSessionSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r)

	days, rows, err := s.stats.Summary(r.Context(), user.ID, intQuery(r, "days", 7))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days, "rows": rows})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r)

	var lastActive any
	if user.Streak.LastActiveDay != "" {
		lastActive = user.Streak.LastActiveDay
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"email":     user.Email,
		"createdAt": user.CreatedAt,
		"settings":  user.Settings,
		"ui":        user.UI,
		"streak": map[string]any{
			"current":       user.Streak.Current,
			"best":          user.Streak.Best,
			"lastActiveDay": lastActive,
		},
	})
}
