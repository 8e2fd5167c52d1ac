// Package license classifies a travel operating license by how close its
// expiry date is. The classification is pure: "today" is always an explicit
// argument, never read from the wall clock, so decisions can be replayed.
package license

import "time"

type Status string

const (
	StatusActive           Status = "active"
	StatusExpiringSoon     Status = "expiring_soon"
	StatusExpiringCritical Status = "expiring_critical"
	StatusExpired          Status = "expired"
)

const (
	criticalWindowDays = 30
	warningWindowDays  = 90
)

// Classify maps a license expiry date to its status category relative to
// today. Partial days round up, so an expiry later today counts as one of the
// critical window's days, and a license is expired only once the expiry date
// is strictly in the past (daysLeft < 0).
func Classify(expiry, today time.Time) Status {
	days := DaysLeft(expiry, today)
	switch {
	case days < 0:
		return StatusExpired
	case days <= criticalWindowDays:
		return StatusExpiringCritical
	case days <= warningWindowDays:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// DaysLeft returns the number of whole days between today and the expiry,
// rounding partial days up. Zero means the license expires today.
func DaysLeft(expiry, today time.Time) int {
	diff := expiry.Sub(today)
	days := int(diff.Hours() / 24)
	if diff > 0 && diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}
