package adapthttp

import (
	"net/http"

	"pomodoro/internal/app"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	switch r.Method {
	case http.MethodGet:
		settings, ui, err := s.settings.Get(r.Context(), user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"settings": settings, "ui": ui})

	case http.MethodPost:
		var body struct {
			PomodoroSettings *struct {
				WorkTime   *int `json:"workTime"`
				ShortBreak *int `json:"shortBreak"`
				LongBreak  *int `json:"longBreak"`
			} `json:"pomodoroSettings"`
			UI *struct {
				ThemeKey  *string `json:"themeKey"`
				AlarmKey  *string `json:"alarmKey"`
				AutoLoop  *bool   `json:"autoLoop"`
				LongEvery *int    `json:"longEvery"`
			} `json:"ui"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		var patch app.SettingsPatch
		if body.PomodoroSettings != nil {
			patch.WorkTime = body.PomodoroSettings.WorkTime
			patch.ShortBreak = body.PomodoroSettings.ShortBreak
			patch.LongBreak = body.PomodoroSettings.LongBreak
		}
		if body.UI != nil {
			patch.ThemeKey = body.UI.ThemeKey
			patch.AlarmKey = body.UI.AlarmKey
			patch.AutoLoop = body.UI.AutoLoop
			patch.LongEvery = body.UI.LongEvery
		}

		settings, ui, err := s.settings.Update(r.Context(), user.ID, patch)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "settings": settings, "ui": ui})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
