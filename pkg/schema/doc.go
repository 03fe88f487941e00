// Package schema provides typed validation for the text values of form fields.
//
// Inputs always produce text. A Type decides whether a piece of text is acceptable
// (Validate) and which typed value it represents (Parse). Schemas map field names to
// types so a whole value set can be checked or converted at once.
//
// Basic usage:
//
//	s := schema.Schema{
//	    "name":  schema.String(),
//	    "age":   schema.Int(),
//	    "email": schema.Email(),
//	}
//
//	if err := s.Validate(map[string]string{"age": "forty"}); err != nil {
//	    // Handle validation errors
//	}
//
//	typed, err := s.Typed(form.Values())
//
// Schemas can also be parsed from type names, as done by the file loader:
//
//	s, err := schema.ParseTypeMap(map[string]string{"age": "int"})
//
// Custom types can be registered for domain-specific validation:
//
//	zip := schema.Custom("zip", func(text string) (any, error) {
//	    if len(text) != 5 {
//	        return nil, fmt.Errorf("expected 5 digits")
//	    }
//	    return text, nil
//	})
//
// This package has no dependencies beyond the Go standard library.
package schema
