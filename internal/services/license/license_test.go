package license

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		daysLeft int
		want     Status
	}{
		{"expired yesterday", -1, StatusExpired},
		{"long expired", -400, StatusExpired},
		{"expires today", 0, StatusExpiringCritical},
		{"one day left", 1, StatusExpiringCritical},
		{"last critical day", 30, StatusExpiringCritical},
		{"first warning day", 31, StatusExpiringSoon},
		{"last warning day", 90, StatusExpiringSoon},
		{"first active day", 91, StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expiry := today.AddDate(0, 0, tt.daysLeft)
			assert.Equal(t, tt.want, Classify(expiry, today))
		})
	}
}

func TestClassify_PartialDaysRoundUp(t *testing.T) {
	// 30 days and 6 hours away: the ceiling is 31 days, which falls in the
	// warning window rather than the critical one.
	expiry := today.Add(30*24*time.Hour + 6*time.Hour)
	assert.Equal(t, 31, DaysLeft(expiry, today))
	assert.Equal(t, StatusExpiringSoon, Classify(expiry, today))

	// A few hours into the past is still "expires today" by the ceiling rule.
	assert.Equal(t, 0, DaysLeft(today.Add(-6*time.Hour), today))
	assert.Equal(t, StatusExpiringCritical, Classify(today.Add(-6*time.Hour), today))

	// A full day and a bit into the past rounds to -1.
	assert.Equal(t, -1, DaysLeft(today.Add(-30*time.Hour), today))
	assert.Equal(t, StatusExpired, Classify(today.Add(-30*time.Hour), today))
}

func TestClassify_Deterministic(t *testing.T) {
	expiry := today.AddDate(0, 0, 45)
	first := Classify(expiry, today)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(expiry, today))
	}
}

func TestClassify_TotalOrdering(t *testing.T) {
	// Walking the expiry from far future into the past must move through the
	// categories in order without skipping back.
	order := map[Status]int{
		StatusActive:           0,
		StatusExpiringSoon:     1,
		StatusExpiringCritical: 2,
		StatusExpired:          3,
	}
	prev := StatusActive
	for d := 120; d >= -10; d-- {
		got := Classify(today.AddDate(0, 0, d), today)
		assert.GreaterOrEqual(t, order[got], order[prev], "days left %d", d)
		prev = got
	}
}
