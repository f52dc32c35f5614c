// Package form models a form definition: the ordered, typed input slots a
// template's positions refer to.
package form

import (
	"fmt"
	"strings"
)

// FieldType enumerates the input kinds a form can hold.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
)

// ValidFieldTypes lists every accepted field type.
var ValidFieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeEmail,
	FieldTypeNumber,
	FieldTypeDate,
	FieldTypeTextarea,
	FieldTypeDropdown,
	FieldTypeCheckbox,
	FieldTypeRadio,
}

// IsValid reports whether t is one of the accepted field types.
func (t FieldType) IsValid() bool {
	for _, v := range ValidFieldTypes {
		if t == v {
			return true
		}
	}
	return false
}

// HasOptions reports whether the type carries a selectable option list.
func (t FieldType) HasOptions() bool {
	return t == FieldTypeDropdown || t == FieldTypeCheckbox || t == FieldTypeRadio
}

// Field is a named, typed input slot belonging to a form. Order defines
// display and tab order; it is unique within a form and contiguous from 0.
type Field struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     string    `json:"options,omitempty"` // comma-delimited, option types only
	Order       int       `json:"order"`
}

// Validate checks the field's own attributes.
func (f *Field) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	if !f.Type.IsValid() {
		return fmt.Errorf("invalid field type: %s", f.Type)
	}
	if f.Options != "" && !f.Type.HasOptions() {
		return fmt.Errorf("field type %s does not take options", f.Type)
	}
	return nil
}

// OptionList splits the comma-delimited option string into trimmed values,
// preserving order and dropping empty entries. "Cat,Dog, Bird" yields
// ["Cat" "Dog" "Bird"].
func (f *Field) OptionList() []string {
	if f.Options == "" {
		return nil
	}
	parts := strings.Split(f.Options, ",")
	opts := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			opts = append(opts, v)
		}
	}
	return opts
}
