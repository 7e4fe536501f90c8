package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerly/finance-api/internal/core/domain"
)

// The flex types accept the loose shapes browser forms send: numbers as
// strings, booleans as "true", lists as comma strings. Each one parses the
// same text from a JSON body and from a multipart field.

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func isJSONString(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '"'
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if !isJSONString(b) {
		var v float64
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return f.UnmarshalParam(s)
}

func (f *flexFloat) UnmarshalParam(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %q is not a number", domain.ErrValidation, s)
	}
	*f = flexFloat(v)
	return nil
}

func (f *flexFloat) value() *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	if !isJSONString(b) {
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return f.UnmarshalParam(s)
}

// UnmarshalParam treats anything other than "true" as false.
func (f *flexBool) UnmarshalParam(s string) error {
	*f = flexBool(strings.EqualFold(strings.TrimSpace(s), "true"))
	return nil
}

func (f *flexBool) value() *bool {
	if f == nil {
		return nil
	}
	v := bool(*f)
	return &v
}

type flexTags []string

func (f *flexTags) UnmarshalJSON(b []byte) error {
	if !isJSONString(b) {
		var v []string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = cleanTags(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return f.UnmarshalParam(s)
}

func (f *flexTags) UnmarshalParam(s string) error {
	*f = cleanTags(strings.Split(s, ","))
	return nil
}

func (f *flexTags) value() *[]string {
	if f == nil {
		return nil
	}
	v := []string(*f)
	return &v
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// flexSplits accepts a JSON array or a string holding one.
type flexSplits []domain.Split

func (f *flexSplits) UnmarshalJSON(b []byte) error {
	if !isJSONString(b) {
		var v []domain.Split
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = v
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return f.UnmarshalParam(s)
}

func (f *flexSplits) UnmarshalParam(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*f = flexSplits{}
		return nil
	}
	var v []domain.Split
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return fmt.Errorf("%w: splits must be a JSON array", domain.ErrValidation)
	}
	*f = v
	return nil
}

func (f *flexSplits) value() *[]domain.Split {
	if f == nil {
		return nil
	}
	v := []domain.Split(*f)
	return &v
}

// flexTime accepts RFC3339 timestamps and bare dates. An empty string leaves
// the zero time, which value reports as absent.
type flexTime time.Time

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: dates must be strings", domain.ErrValidation)
	}
	return f.UnmarshalParam(s)
}

func (f *flexTime) UnmarshalParam(s string) error {
	t, err := parseTime(s)
	if err != nil {
		return err
	}
	*f = flexTime(t)
	return nil
}

func (f *flexTime) value() *time.Time {
	if f == nil || time.Time(*f).IsZero() {
		return nil
	}
	v := time.Time(*f)
	return &v
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a valid date", domain.ErrValidation, s)
}

// text returns nil for an absent field so Update keeps the stored value.
func text(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
