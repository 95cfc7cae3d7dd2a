package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const UnavailableAccuracy = "N/A"

// Accuracy is passed through from the backend verbatim. Only the sort key is derived from it:
// numbers and numeric strings sort by value, anything else sorts as zero.
type Accuracy struct {
	raw     string
	value   float64
	present bool
}

func NewAccuracy(v float64) Accuracy {
	return Accuracy{
		raw:     strconv.FormatFloat(v, 'f', -1, 64),
		value:   v,
		present: true,
	}
}

func Unavailable() Accuracy {
	return Accuracy{}
}

func (a Accuracy) Available() bool {
	return a.present
}

// SortKey is the numeric value used to rank comparison rows.
func (a Accuracy) SortKey() float64 {
	return a.value
}

func (a Accuracy) String() string {
	if !a.present {
		return UnavailableAccuracy
	}
	return a.raw
}

func (a *Accuracy) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Unavailable()
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("accuracy: %w", err)
		}
		*a = Accuracy{raw: s, present: true}
		if v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64); err == nil {
			a.value = v
		}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("accuracy: %w", err)
	}
	v, err := n.Float64()
	if err != nil {
		return fmt.Errorf("accuracy: %w", err)
	}
	*a = Accuracy{raw: n.String(), value: v, present: true}
	return nil
}

func (a Accuracy) MarshalJSON() ([]byte, error) {
	if !a.present {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(a.raw, 64); err == nil {
		return []byte(a.raw), nil
	}
	return json.Marshal(a.raw)
}
