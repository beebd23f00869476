package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the plain calendar date form accepted for event dates
const DateLayout = "2006-01-02"

// CalendarDay keeps the day as written in t's own offset and returns it as
// midnight UTC, so a date never shifts when read back in another zone.
func CalendarDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 and returns the calendar day
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return CalendarDay(t), nil
}

// decodeDate reads an optional JSON date. Absent and null both give nil.
func decodeDate(raw json.RawMessage) (*time.Time, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// strictUnmarshal rejects unknown fields, as the transport decoders do
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (e *NewEvent) UnmarshalJSON(data []byte) error {
	type plain NewEvent
	var raw struct {
		plain
		Date json.RawMessage `json:"date"`
	}
	if err := strictUnmarshal(data, &raw); err != nil {
		return err
	}
	date, err := decodeDate(raw.Date)
	if err != nil {
		return err
	}
	*e = NewEvent(raw.plain)
	e.Date = time.Time{}
	if date != nil {
		e.Date = *date
	}
	return nil
}

func (u *EventUpdate) UnmarshalJSON(data []byte) error {
	type plain EventUpdate
	var raw struct {
		plain
		Date json.RawMessage `json:"date"`
	}
	if err := strictUnmarshal(data, &raw); err != nil {
		return err
	}
	date, err := decodeDate(raw.Date)
	if err != nil {
		return err
	}
	*u = EventUpdate(raw.plain)
	u.Date = date
	return nil
}
