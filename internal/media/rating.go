package media

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Rating is an optional score on a 0-10 scale.
// The zero value means "not available".
type Rating struct {
	value float64
	valid bool
}

// NewRating normalizes a provider score. Scores with scale 100 are divided by
// ten. Zero and negative scores are treated as missing.
func NewRating(value, scale float64) Rating {
	if value <= 0 {
		return Rating{}
	}
	if scale == 100 {
		value /= 10
	}
	return Rating{value: value, valid: true}
}

// Available reports whether a value is present.
func (r Rating) Available() bool {
	return r.valid
}

// Value returns the score, or 0 when unavailable.
func (r Rating) Value() float64 {
	return r.value
}

// String renders "8.5" or "N/A".
func (r Rating) String() string {
	if !r.valid {
		return "N/A"
	}
	return strconv.FormatFloat(r.value, 'f', 1, 64)
}

// Display renders the rating for listings.
func (r Rating) Display() string {
	if !r.valid {
		return "N/A"
	}
	return fmt.Sprintf("⭐ %.1f", r.value)
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Rating{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("rating: %w", err)
	}
	*r = NewRating(v, 10)
	return nil
}

// MarshalYAML renders the rating as a number or null.
func (r Rating) MarshalYAML() (any, error) {
	if !r.valid {
		return nil, nil
	}
	return r.value, nil
}
