package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// timestampLayouts are tried in order. Layouts without a zone are read
// as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var errInvalidTimestamp = errors.New("invalid timestamp")

// Timestamp is a point in time decoded from the formats clients commonly
// send for deadlines.
type Timestamp struct {
	time.Time
}

func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("%w: %q", errInvalidTimestamp, s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &json.UnmarshalTypeError{Value: "non-string", Type: reflect.TypeOf(t).Elem()}
	}

	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string " + string(data), Type: reflect.TypeOf(t).Elem()}
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}
