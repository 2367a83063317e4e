package domain

import "time"

const dayKeyLayout = "2006-01-02"

// StreakState tracks consecutive qualifying days for a user.
// Best never decreases and is always >= Current.
type StreakState struct {
	Current       int    `json:"current"`
	Best          int    `json:"best"`
	LastActiveDay string `json:"lastActiveDay"` // 'YYYY-MM-DD' UTC, empty if never active
}

// DayKeyUTC returns the UTC calendar day of t as 'YYYY-MM-DD'.
func DayKeyUTC(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

// DayDistance returns the number of calendar days from one day key to
// another, measured between UTC midnights. Malformed keys yield 0.
func DayDistance(from, to string) int {
	a, err := time.Parse(dayKeyLayout, from)
	if err != nil {
		return 0
	}
	b, err := time.Parse(dayKeyLayout, to)
	if err != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

// NextStreak computes the streak state after a qualifying session on the
// given day. Same day is a no-op, which makes repeated submissions within
// one day idempotent. A distance of exactly one day extends the streak;
// anything else starts a new streak of one.
func NextStreak(prev StreakState, today string) StreakState {
	if prev.LastActiveDay == today {
		return prev
	}

	next := StreakState{Best: prev.Best, LastActiveDay: today}
	if prev.LastActiveDay != "" && DayDistance(prev.LastActiveDay, today) == 1 {
		next.Current = prev.Current + 1
	} else {
		next.Current = 1
	}
	if next.Current > next.Best {
		next.Best = next.Current
	}
	return next
}
