package app

import (
	"context"
	"math"
	"sort"
	"time"

	"pomodoro/internal/domain"
)

// StatsService reconstructs daily statistics from the raw session log.
type StatsService struct {
	sessions domain.SessionRepository
}

// NewStatsService creates a StatsService backed by the given repository.
func NewStatsService(sessions domain.SessionRepository) *StatsService {
	return &StatsService{sessions: sessions}
}

// DayRow is one calendar day's rollup returned by Summary.
type DayRow struct {
	Day         string `json:"day"`
	WorkMinutes int    `json:"workMinutes"`
	Sessions    int    `json:"sessions"`
}

// Summary returns one row per UTC calendar day within the trailing window
// that has at least one work session, ascending by day. Days is clamped
// to [1, 90]. Fractional minutes are summed per day and rounded once at
// output, not per session.
func (s *StatsService) Summary(ctx context.Context, userID int64, days int) (int, []DayRow, error) {
	if days < 1 {
		days = 1
	}
	if days > 90 {
		days = 90
	}

	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	sessions, err := s.sessions.ListWorkSessionsSince(ctx, userID, since)
	if err != nil {
		return days, nil, err
	}

	minutes := make(map[string]float64)
	counts := make(map[string]int)
	for _, sess := range sessions {
		day := domain.DayKeyUTC(sess.CompletedAt)
		minutes[day] += float64(sess.Duration) / 60
		counts[day]++
	}

	keys := make([]string, 0, len(minutes))
	for day := range minutes {
		keys = append(keys, day)
	}
	sort.Strings(keys) // lexicographic order of day keys is chronological

	rows := make([]DayRow, 0, len(keys))
	for _, day := range keys {
		rows = append(rows, DayRow{
			Day:         day,
			WorkMinutes: int(math.Round(minutes[day])),
			Sessions:    counts[day],
		})
	}
	return days, rows, nil
}
