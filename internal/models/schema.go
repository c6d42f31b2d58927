package models

// Field input kinds understood by the platform's admin form renderer.
const (
	FieldTypeText     = "text"
	FieldTypePassword = "password"
	FieldTypeNumber   = "number"
	FieldTypeSelect   = "select"
)

// FieldOption is a single entry of a select field.
type FieldOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// FieldDescriptor describes one configuration field for the platform's
// admin UI renderer.
type FieldDescriptor struct {
	Key         string        `json:"key"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Type        string        `json:"type"`
	Default     interface{}   `json:"default_value,omitempty"`
	Rules       []string      `json:"rules,omitempty"`
	Options     []FieldOption `json:"options,omitempty"`
}

// Metadata is the fixed service descriptor queried by the platform.
type Metadata struct {
	DisplayName        string `json:"display_name"`
	Author             string `json:"author"`
	Version            string `json:"version"`
	MinPlatformVersion string `json:"min_platform_version"`
}
