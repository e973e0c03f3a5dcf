package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcpanes/rcpanes/internal/constants"
)

// ValidateRefreshInterval reports whether n seconds is an accepted polling interval.
func ValidateRefreshInterval(n int) error {
	if n < constants.MinRefreshInterval || n > constants.MaxRefreshInterval {
		return ErrInvalidRefreshInterval
	}
	return nil
}

// ParseRefreshInterval parses user input for the polling interval. Malformed
// or out-of-range input is rejected so the caller can keep the prior value.
func ParseRefreshInterval(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidRefreshInterval, input)
	}
	if err := ValidateRefreshInterval(n); err != nil {
		return 0, err
	}
	return n, nil
}
