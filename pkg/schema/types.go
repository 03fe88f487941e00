package schema

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
)

// Type defines the contract for text field validation.
// Form inputs always produce text; a Type decides whether that text is acceptable and
// what typed value it stands for.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Parse converts text into the typed value it represents.
	Parse(text string) (any, error)
}

// Validate checks if text conforms to t.
func Validate(t Type, text string) error {
	_, err := t.Parse(text)
	return err
}

// --- Built-in Type Implementations ---

// StringType accepts any text.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Parse(text string) (any, error) { return text, nil }

// IntType accepts base-10 integers.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Parse(text string) (any, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("expected int, got %q", text)
	}
	return i, nil
}

// FloatType accepts decimal numbers.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Parse(text string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, fmt.Errorf("expected float, got %q", text)
	}
	return f, nil
}

// BoolType accepts the spellings understood by strconv.ParseBool plus yes/no and on/off.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Parse(text string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("expected bool, got %q", text)
	}
	return b, nil
}

// EmailType accepts a single RFC 5322 address.
type EmailType struct{}

func (t *EmailType) Name() string { return "email" }

func (t *EmailType) Parse(text string) (any, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("expected email, got %q", text)
	}
	return addr.Address, nil
}

// CustomType applies a user-defined parse function.
type CustomType struct {
	name  string
	parse func(string) (any, error)
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Parse(text string) (any, error) {
	return t.parse(text)
}

// --- Factory Functions ---

// String creates a string type.
func String() Type { return &StringType{} }

// Int creates an integer type.
func Int() Type { return &IntType{} }

// Float creates a float type.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type.
func Bool() Type { return &BoolType{} }

// Email creates an email address type.
func Email() Type { return &EmailType{} }

// Custom creates a type with a user-defined parse function.
func Custom(name string, parse func(string) (any, error)) Type {
	return &CustomType{name: name, parse: parse}
}

// ParseType converts a type name to a Type. The empty name means "string".
func ParseType(typeStr string) (Type, error) {
	switch typeStr {
	case "", "string", "text":
		return String(), nil
	case "int", "integer":
		return Int(), nil
	case "float", "number":
		return Float(), nil
	case "bool", "boolean":
		return Bool(), nil
	case "email":
		return Email(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts a map of field names to type names into a Schema.
// Example: {"age": "int", "email": "email"}
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema)
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}
