package prompt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	FormatOpenAI    = "openai"
	FormatAnthropic = "anthropic"

	TypeSystem    = "system"
	TypeUser      = "user"
	TypeAssistant = "assistant"
	TypeComplete  = "complete"
)

// Result is a rendered prompt. It is derived on demand and never persisted.
type Result struct {
	RoleID       uuid.UUID `json:"role_id"`
	RoleName     string    `json:"role_name"`
	Prompt       string    `json:"prompt"`
	TemplateID   uuid.UUID `json:"template_id"`
	TemplateName string    `json:"template_name"`
	Format       string    `json:"format"`
	Type         string    `json:"type"`
}

// GenerateRequest is the body of POST /roles/{id}/prompt.
type GenerateRequest struct {
	Format          string     `json:"format,omitempty"`
	Type            string     `json:"type,omitempty"`
	TemplateID      *uuid.UUID `json:"template_id,omitempty"`
	CustomVariables Variables  `json:"custom_variables,omitempty"`
}

// PreviewRequest is the body of POST /roles/{id}/preview-prompt. TemplateID is mandatory.
type PreviewRequest struct {
	TemplateID      uuid.UUID `json:"template_id"`
	Format          string    `json:"format,omitempty"`
	Type            string    `json:"type,omitempty"`
	CustomVariables Variables `json:"custom_variables,omitempty"`
}

// Variables maps placeholder names to caller-supplied values.
type Variables map[string]Value

// Kind is the closed set of value shapes a custom variable may take.
type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
	KindBool
	KindList
)

var ErrUnsupportedValue = errors.New("custom variable must be a string, number, bool or list of strings")

// Value is one custom variable value. The zero Value is invalid.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []string
}

func String(s string) Value      { return Value{kind: KindString, str: s} }
func Number(n float64) Value     { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value          { return Value{kind: KindBool, b: b} }
func List(items ...string) Value { return Value{kind: KindList, list: append([]string{}, items...)} }

func (v Value) Kind() Kind { return v.kind }

// Items returns the list items of a KindList value, nil otherwise.
func (v Value) Items() []string {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Text is the substitution text of the value; lists are joined with ", ".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		return strings.Join(v.list, ", ")
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if !finite(v.num) {
			return nil, ErrUnsupportedValue
		}
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return nil, ErrUnsupportedValue
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case string:
		*v = String(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return fmt.Errorf("custom variable number: %w", err)
		}
		*v = Number(n)
	case bool:
		*v = Bool(x)
	case []any:
		items := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return ErrUnsupportedValue
			}
			items = append(items, s)
		}
		*v = List(items...)
	default:
		return ErrUnsupportedValue
	}
	return nil
}

// ParseAssignment parses a CLI style "name=value" pair. Values containing
// commas become lists, "true"/"false" become bools, numerics become numbers.
func ParseAssignment(s string) (string, Value, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", Value{}, fmt.Errorf("invalid variable %q: want name=value", s)
	}
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		return name, List(items...), nil
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return name, Bool(b), nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil && finite(n) {
		return name, Number(n), nil
	}
	return name, String(raw), nil
}

// finite rejects NaN and the infinities, which JSON cannot carry.
func finite(n float64) bool { return !math.IsNaN(n) && !math.IsInf(n, 0) }
