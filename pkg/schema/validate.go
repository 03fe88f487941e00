package schema

import "slices"

// Schema is a map of field names to their expected types.
// Example: {"name": String(), "age": Int()}
type Schema map[string]Type

// Validate checks the non-empty texts of values against the schema.
// Empty text is accepted: requiredness is a message rule, not a type.
// Returns an error with all validation failures found, in field order.
func (s Schema) Validate(values map[string]string) error {
	if len(s) == 0 {
		return nil
	}

	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var errs []error
	for _, key := range keys {
		text, ok := values[key]
		if !ok || text == "" {
			continue
		}
		if err := Validate(s[key], text); err != nil {
			errs = append(errs, &ValidationError{
				Key:    key,
				Reason: err.Error(),
				Value:  text,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Typed parses every value whose field has a type, leaving the others as text.
// Empty text maps to nil. The first parse failure is returned.
func (s Schema) Typed(values map[string]string) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for key, text := range values {
		t, ok := s[key]
		if !ok {
			out[key] = text
			continue
		}
		if text == "" {
			out[key] = nil
			continue
		}
		v, err := t.Parse(text)
		if err != nil {
			return nil, &ValidationError{Key: key, Reason: err.Error(), Value: text}
		}
		out[key] = v
	}
	return out, nil
}
