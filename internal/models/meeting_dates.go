package models

import (
	"encoding/json"
	"strings"
	"time"
)

// meetingDateLayouts are tried in order for each meeting date.
var meetingDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// EncodeMeetingDates normalizes a JSON list of dates into the stored form.
// Anything unparseable yields nil so the rest of the update still applies.
func EncodeMeetingDates(raw json.RawMessage) *string {
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}

	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, ok := parseMeetingDate(v)
		if !ok {
			return nil
		}
		dates = append(dates, d)
	}

	encoded, err := json.Marshal(dates)
	if err != nil {
		return nil
	}
	out := string(encoded)
	return &out
}

// DecodeMeetingDates reverses EncodeMeetingDates; a corrupt value decodes to nil.
func DecodeMeetingDates(stored *string) []time.Time {
	if stored == nil || *stored == "" {
		return nil
	}
	var dates []time.Time
	if err := json.Unmarshal([]byte(*stored), &dates); err != nil {
		return nil
	}
	return dates
}

func parseMeetingDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range meetingDateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return d.UTC(), true
		}
	}
	return time.Time{}, false
}
