package dto

// FormDocument is the raw shape of a declarative form file.
// It uses "mapstructure" tags so YAML and JSON documents decode the same way.
type FormDocument struct {
	Name   string                   `json:"name" mapstructure:"name"`
	Fields map[string]FieldDocument `json:"fields" mapstructure:"fields"`
	Global GlobalDocument           `json:"global" mapstructure:"global"`
}

// FieldDocument declares one field.
type FieldDocument struct {
	Initial     string            `json:"initial" mapstructure:"initial"`
	Type        string            `json:"type" mapstructure:"type"`
	Props       map[string]any    `json:"props" mapstructure:"props"`
	Constraints []map[string]any  `json:"constraints" mapstructure:"constraints"`
	Messages    []MessageDocument `json:"messages" mapstructure:"messages"`
}

// MessageDocument is a per-field message rule. When holds single-key rule documents
// (see pkg/rules).
type MessageDocument struct {
	When     map[string]any `json:"when" mapstructure:"when"`
	Message  string         `json:"message" mapstructure:"message"`
	Severity string         `json:"severity" mapstructure:"severity"`
}

// GlobalDocument holds the whole-form rules.
type GlobalDocument struct {
	Constraints []map[string]any        `json:"constraints" mapstructure:"constraints"`
	Messages    []GlobalMessageDocument `json:"messages" mapstructure:"messages"`
}

type GlobalMessageDocument struct {
	When     map[string]any    `json:"when" mapstructure:"when"`
	Message  map[string]string `json:"message" mapstructure:"message"`
	Severity string            `json:"severity" mapstructure:"severity"`
}
