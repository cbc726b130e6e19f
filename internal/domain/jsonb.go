package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// jsonbValue marshals v for storage in a JSONB column.
func jsonbValue(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling jsonb: %w", err)
	}
	return data, nil
}

// jsonbScan unmarshals a JSONB column into dst. NULL leaves dst untouched.
func jsonbScan(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// StringList is a JSONB-backed list of string identifiers.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return jsonbValue([]string{})
	}
	return jsonbValue([]string(l))
}

func (l *StringList) Scan(src interface{}) error { return jsonbScan(src, l) }

// Contains reports whether the list holds s.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// EntityMap is a JSONB-backed map of extracted document entities.
type EntityMap map[string]string

func (m EntityMap) Value() (driver.Value, error) {
	if m == nil {
		return jsonbValue(map[string]string{})
	}
	return jsonbValue(map[string]string(m))
}

func (m *EntityMap) Scan(src interface{}) error { return jsonbScan(src, m) }

// ExtractedField is one structured value derived from conversation or OCR.
type ExtractedField struct {
	Value       string    `json:"value"`
	Confidence  float64   `json:"confidence"`
	Source      string    `json:"source"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// ExtractedData maps field names to their latest extracted value.
// Keys are unique; the latest write for a key wins regardless of source.
type ExtractedData map[string]ExtractedField

func (d ExtractedData) Value() (driver.Value, error) {
	if d == nil {
		return jsonbValue(map[string]ExtractedField{})
	}
	return jsonbValue(map[string]ExtractedField(d))
}

func (d *ExtractedData) Scan(src interface{}) error { return jsonbScan(src, d) }

// ConversationTurn is a single free-form exchange recorded during questioning.
type ConversationTurn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Turns is a JSONB-backed conversation history.
type Turns []ConversationTurn

func (t Turns) Value() (driver.Value, error) {
	if t == nil {
		return jsonbValue([]ConversationTurn{})
	}
	return jsonbValue([]ConversationTurn(t))
}

func (t *Turns) Scan(src interface{}) error { return jsonbScan(src, t) }

// ValidationIssue is one structured validation failure.
type ValidationIssue struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationOutcome is the persisted result of the validation stage.
type ValidationOutcome struct {
	Passed    bool              `json:"passed"`
	Issues    []ValidationIssue `json:"issues,omitempty"`
	CheckedAt time.Time         `json:"checked_at"`
}

func (o ValidationOutcome) Value() (driver.Value, error) { return jsonbValue(o) }

func (o *ValidationOutcome) Scan(src interface{}) error { return jsonbScan(src, o) }

// PolicyLimitResult is the persisted outcome of the policy-limit check.
type PolicyLimitResult struct {
	WithinLimit   bool    `json:"within_limit"`
	LimitAmount   float64 `json:"limit_amount"`
	ClaimedAmount float64 `json:"claimed_amount"`
	Message       string  `json:"message,omitempty"`
}

func (p PolicyLimitResult) Value() (driver.Value, error) { return jsonbValue(p) }

func (p *PolicyLimitResult) Scan(src interface{}) error { return jsonbScan(src, p) }
