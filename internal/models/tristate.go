package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TriState is a yes/no answer that may also be left blank.
type TriState int

const (
	TriStateUnspecified TriState = iota
	TriStateYes
	TriStateNo
)

// ParseTriState accepts the form values نعم/لا, true/false and blank.
func ParseTriState(raw string) (TriState, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return TriStateUnspecified, nil
	case "نعم", "true", "yes", "1":
		return TriStateYes, nil
	case "لا", "false", "no", "0":
		return TriStateNo, nil
	}
	return TriStateUnspecified, fmt.Errorf("invalid yes/no value %q", raw)
}

// TriStateOf converts a nullable bool.
func TriStateOf(b *bool) TriState {
	switch {
	case b == nil:
		return TriStateUnspecified
	case *b:
		return TriStateYes
	default:
		return TriStateNo
	}
}

// Bool returns the nullable bool form.
func (t TriState) Bool() *bool {
	var v bool
	switch t {
	case TriStateYes:
		v = true
	case TriStateNo:
		v = false
	default:
		return nil
	}
	return &v
}

// Arabic renders نعم / لا, or fallback when unspecified.
func (t TriState) Arabic(fallback string) string {
	switch t {
	case TriStateYes:
		return "نعم"
	case TriStateNo:
		return "لا"
	}
	return fallback
}

// MarshalJSON encodes true, false or null.
func (t TriState) MarshalJSON() ([]byte, error) {
	if b := t.Bool(); b != nil {
		return json.Marshal(*b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts booleans, null and the string forms of ParseTriState.
func (t *TriState) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null":
		*t = TriStateUnspecified
		return nil
	case "true":
		*t = TriStateYes
		return nil
	case "false":
		*t = TriStateNo
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid yes/no value %s", data)
	}
	v, err := ParseTriState(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Scan implements sql.Scanner for a nullable boolean column.
func (t *TriState) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TriStateUnspecified
	case bool:
		*t = TriStateOf(&v)
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into TriState", src)
	}
	return nil
}

func (t *TriState) scanString(s string) error {
	switch strings.ToLower(s) {
	case "t", "true":
		*t = TriStateYes
	case "f", "false":
		*t = TriStateNo
	default:
		return fmt.Errorf("cannot scan %q into TriState", s)
	}
	return nil
}

// Value implements driver.Valuer.
func (t TriState) Value() (driver.Value, error) {
	if b := t.Bool(); b != nil {
		return *b, nil
	}
	return nil, nil
}
