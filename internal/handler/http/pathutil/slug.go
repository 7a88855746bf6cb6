package pathutil

import (
	"errors"
	"regexp"
)

// ErrInvalidSlug is returned for path segments that are not valid slugs.
var ErrInvalidSlug = errors.New("invalid slug")

// MaxSlugLength bounds slugs accepted from URLs.
const MaxSlugLength = 120

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateSlug checks that s is a lowercase, hyphen separated slug such as
// "harbor-view-residence" or "bayside".
func ValidateSlug(s string) error {
	if s == "" || len(s) > MaxSlugLength || !slugPattern.MatchString(s) {
		return ErrInvalidSlug
	}
	return nil
}
