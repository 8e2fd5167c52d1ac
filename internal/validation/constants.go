package validation

import "regexp"

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	// SSM company registration numbers: old 12-digit form or the pre-2019
	// "1234567-X" form.
	ssmRegex = regexp.MustCompile(`^([0-9]{12}|[0-9]{6,8}-[A-Z])$`)
)
