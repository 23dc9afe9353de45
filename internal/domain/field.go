package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldType is the type tag stored with a registration field definition
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeEmail    FieldType = "email"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeTextarea FieldType = "textarea"
)

// Render controls a client draws for a field
const (
	ControlTextInput    = "text-input"
	ControlMultiline    = "multiline"
	ControlSingleChoice = "single-choice"
	ControlBoolean      = "boolean"
)

var (
	ErrUnknownFieldType     = errors.New("unknown field type")
	ErrInvalidFieldValue    = errors.New("invalid field value")
	ErrFieldLabelRequired   = errors.New("field label is required")
	ErrInvalidFieldStep     = errors.New("field step must be 1 or 2")
	ErrSelectWithoutOptions = errors.New("select field requires at least one option")
)

var fieldValidate = validator.New()

// RenderSpec tells a client which input control to draw
type RenderSpec struct {
	Control   string   `json:"control"`
	InputType string   `json:"input_type,omitempty"`
	Options   []string `json:"options,omitempty"`
}

// FieldKind is the closed set of field kinds. Only ParseKind constructs one.
type FieldKind interface {
	Type() FieldType
	// Validate checks a submitted value; empty values are accepted and left to the required check
	Validate(value interface{}) error
	Render() RenderSpec
	isFieldKind()
}

type (
	TextKind     struct{}
	NumberKind   struct{}
	EmailKind    struct{}
	TextareaKind struct{}
	CheckboxKind struct{}
	SelectKind   struct{ Options []string }
)

// ParseKind maps a stored type tag onto its kind
func ParseKind(typ string, options []string) (FieldKind, error) {
	switch FieldType(typ) {
	case FieldTypeText:
		return TextKind{}, nil
	case FieldTypeNumber:
		return NumberKind{}, nil
	case FieldTypeEmail:
		return EmailKind{}, nil
	case FieldTypeTextarea:
		return TextareaKind{}, nil
	case FieldTypeCheckbox:
		return CheckboxKind{}, nil
	case FieldTypeSelect:
		return SelectKind{Options: cleanOptions(options)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldType, typ)
	}
}

func (TextKind) Type() FieldType     { return FieldTypeText }
func (NumberKind) Type() FieldType   { return FieldTypeNumber }
func (EmailKind) Type() FieldType    { return FieldTypeEmail }
func (TextareaKind) Type() FieldType { return FieldTypeTextarea }
func (CheckboxKind) Type() FieldType { return FieldTypeCheckbox }
func (SelectKind) Type() FieldType   { return FieldTypeSelect }

func (TextKind) isFieldKind()     {}
func (NumberKind) isFieldKind()   {}
func (EmailKind) isFieldKind()    {}
func (TextareaKind) isFieldKind() {}
func (CheckboxKind) isFieldKind() {}
func (SelectKind) isFieldKind()   {}

func (TextKind) Render() RenderSpec {
	return RenderSpec{Control: ControlTextInput, InputType: "text"}
}

func (NumberKind) Render() RenderSpec {
	return RenderSpec{Control: ControlTextInput, InputType: "number"}
}

func (EmailKind) Render() RenderSpec {
	return RenderSpec{Control: ControlTextInput, InputType: "email"}
}

func (TextareaKind) Render() RenderSpec {
	return RenderSpec{Control: ControlMultiline}
}

func (CheckboxKind) Render() RenderSpec {
	return RenderSpec{Control: ControlBoolean}
}

func (k SelectKind) Render() RenderSpec {
	return RenderSpec{Control: ControlSingleChoice, Options: k.Options}
}

func (TextKind) Validate(value interface{}) error     { return validateString(value) }
func (TextareaKind) Validate(value interface{}) error { return validateString(value) }

func (EmailKind) Validate(value interface{}) error {
	if err := validateString(value); err != nil || !IsFilled(value) {
		return err
	}
	if err := fieldValidate.Var(strings.TrimSpace(value.(string)), "email"); err != nil {
		return fmt.Errorf("%w: not a valid email address", ErrInvalidFieldValue)
	}
	return nil
}

func (NumberKind) Validate(value interface{}) error {
	switch v := value.(type) {
	case nil, float64, float32, int, int64, int32:
		return nil
	case json.Number:
		if _, err := v.Float64(); err != nil {
			return fmt.Errorf("%w: not a number", ErrInvalidFieldValue)
		}
		return nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return fmt.Errorf("%w: not a number", ErrInvalidFieldValue)
		}
		return nil
	default:
		return fmt.Errorf("%w: not a number", ErrInvalidFieldValue)
	}
}

func (CheckboxKind) Validate(value interface{}) error {
	switch value.(type) {
	case nil, bool:
		return nil
	default:
		return fmt.Errorf("%w: expected true or false", ErrInvalidFieldValue)
	}
}

func (k SelectKind) Validate(value interface{}) error {
	if err := validateString(value); err != nil || !IsFilled(value) {
		return err
	}
	choice := value.(string)
	for _, opt := range k.Options {
		if opt == choice {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not one of the options", ErrInvalidFieldValue, choice)
}

func validateString(value interface{}) error {
	switch value.(type) {
	case nil, string:
		return nil
	default:
		return fmt.Errorf("%w: expected text", ErrInvalidFieldValue)
	}
}

func cleanOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if opt = strings.TrimSpace(opt); opt != "" {
			out = append(out, opt)
		}
	}
	return out
}

// IsFilled reports whether a submitted value counts as answered
func IsFilled(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case bool:
		return v
	case []interface{}:
		return len(v) > 0
	default:
		return true
	}
}

// FieldDefinition is an admin-defined registration question
type FieldDefinition struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Step        int       `json:"step"`
	Order       int       `json:"order"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Kind parses the stored type tag
func (d *FieldDefinition) Kind() (FieldKind, error) {
	return ParseKind(string(d.Type), d.Options)
}

// Validate checks a definition before it is stored
func (d *FieldDefinition) Validate() error {
	if strings.TrimSpace(d.Label) == "" {
		return ErrFieldLabelRequired
	}
	kind, err := d.Kind()
	if err != nil {
		return err
	}
	if d.Step != 1 && d.Step != 2 {
		return ErrInvalidFieldStep
	}
	if sk, ok := kind.(SelectKind); ok && len(sk.Options) == 0 {
		return ErrSelectWithoutOptions
	}
	return nil
}

// RenderedField is a definition together with its render spec
type RenderedField struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Required    bool       `json:"required"`
	Step        int        `json:"step"`
	Order       int        `json:"order"`
	Placeholder string     `json:"placeholder,omitempty"`
	Render      RenderSpec `json:"render"`
}

// RenderFields renders the enabled definitions ordered by Order.
// Definitions whose type no longer parses are returned in skipped.
func RenderFields(defs []*FieldDefinition) (rendered []RenderedField, skipped []*FieldDefinition) {
	rendered = make([]RenderedField, 0, len(defs))
	for _, d := range SortFields(defs) {
		if !d.Enabled {
			continue
		}
		kind, err := d.Kind()
		if err != nil {
			skipped = append(skipped, d)
			continue
		}
		rendered = append(rendered, RenderedField{
			ID:          d.ID,
			Label:       d.Label,
			Required:    d.Required,
			Step:        d.Step,
			Order:       d.Order,
			Placeholder: d.Placeholder,
			Render:      kind.Render(),
		})
	}
	return rendered, skipped
}

// SortFields returns a copy of defs ordered by Order, ties broken by label
func SortFields(defs []*FieldDefinition) []*FieldDefinition {
	out := make([]*FieldDefinition, len(defs))
	copy(out, defs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// MissingFields lists the enabled required fields of step left unanswered in customFields
func MissingFields(defs []*FieldDefinition, step int, customFields map[string]interface{}) []*FieldDefinition {
	var missing []*FieldDefinition
	for _, d := range SortFields(defs) {
		if !d.Enabled || !d.Required || d.Step != step {
			continue
		}
		if _, err := d.Kind(); err != nil {
			continue
		}
		if !IsFilled(customFields[d.ID]) {
			missing = append(missing, d)
		}
	}
	return missing
}

// StepComplete reports whether every enabled required field of step is answered
func StepComplete(defs []*FieldDefinition, step int, customFields map[string]interface{}) bool {
	return len(MissingFields(defs, step, customFields)) == 0
}

// InvalidFields validates every answered value against its field kind, keyed by field ID
func InvalidFields(defs []*FieldDefinition, customFields map[string]interface{}) map[string]string {
	invalid := map[string]string{}
	for _, d := range defs {
		value, ok := customFields[d.ID]
		if !ok || !d.Enabled {
			continue
		}
		kind, err := d.Kind()
		if err != nil {
			continue
		}
		if err := kind.Validate(value); err != nil {
			invalid[d.ID] = err.Error()
		}
	}
	return invalid
}
