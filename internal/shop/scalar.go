package shop

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Scalar captures a raw JSON value whose concrete type the shop API does not
// guarantee. Identifiers arrive as numbers or strings depending on the
// endpoint, and numeric fields occasionally arrive as quoted decimals.
// Decoding never fails; interpretation happens at the accessor.
type Scalar struct {
	raw json.RawMessage
}

// UnmarshalJSON stores the raw token verbatim.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	s.raw = append(s.raw[:0], data...)
	return nil
}

// MarshalJSON round-trips the original token.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// IsZero reports whether the field was absent or null.
func (s Scalar) IsZero() bool {
	return len(s.raw) == 0 || bytes.Equal(s.raw, []byte("null"))
}

// String returns the value as a string: unquoted when the token is a JSON
// string, the literal token for numbers, and "" for null or absent fields.
func (s Scalar) String() string {
	if s.IsZero() {
		return ""
	}
	var str string
	if err := json.Unmarshal(s.raw, &str); err == nil {
		return str
	}
	return strings.TrimSpace(string(s.raw))
}

// Float64 interprets the value as a number, accepting numeric strings.
// The second return reports whether the interpretation succeeded.
func (s Scalar) Float64() (float64, bool) {
	if s.IsZero() {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(s.raw, &f); err == nil {
		return f, true
	}
	var str string
	if err := json.Unmarshal(s.raw, &str); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Coerce returns the numeric value, or 0 when the field is absent or not a
// number. Matches the dashboard rule that non-numeric quantities count as 0.
func (s Scalar) Coerce() float64 {
	f, ok := s.Float64()
	if !ok {
		return 0
	}
	return f
}
