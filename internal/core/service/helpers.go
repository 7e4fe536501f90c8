package service

import (
	"strings"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

// pick returns *v when supplied, otherwise fallback.
func pick[T any](v *T, fallback T) T {
	if v != nil {
		return *v
	}
	return fallback
}

// pickText is pick for fields where an empty string counts as absent.
func pickText(v *string, fallback string) string {
	if v != nil && strings.TrimSpace(*v) != "" {
		return *v
	}
	return fallback
}
