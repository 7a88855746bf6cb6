package listing

import (
	"fmt"
	"strings"
)

// Policy decides what a collection read returns once its retries are
// exhausted.
type Policy string

const (
	// PolicyPropagate returns the error to the caller.
	PolicyPropagate Policy = "propagate"
	// PolicyEmpty logs the error and returns an empty collection.
	PolicyEmpty Policy = "empty"
)

// ParsePolicy parses a policy name, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyPropagate, PolicyEmpty:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}
