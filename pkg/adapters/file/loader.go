package file

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/sform/internal/dto"
	"github.com/aretw0/sform/pkg/domain"
	"github.com/aretw0/sform/pkg/rules"
	"github.com/aretw0/sform/pkg/schema"
)

// Format selects the document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor guesses the format from a file extension. Anything but .json is YAML.
func FormatFor(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Definition is a compiled declarative form.
type Definition struct {
	Config domain.FormConfig[string, string]
	// Schema holds the declared type of every field.
	Schema schema.Schema
}

// Loader reads declarative form files and compiles them with a rule registry.
type Loader struct {
	registry *rules.Registry
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRegistry compiles rules against r instead of the built-in catalog.
func WithRegistry(r *rules.Registry) LoaderOption {
	return func(l *Loader) {
		l.registry = r
	}
}

// NewLoader creates a Loader using the built-in rule catalog unless told otherwise.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		l.registry = rules.Default()
	}
	return l
}

// Load reads and compiles the form at path with the default loader.
func Load(path string) (*Definition, error) {
	return NewLoader().Load(path)
}

// Load reads the file at path and compiles it.
func (l *Loader) Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}
	def, err := l.Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes and compiles a document held in memory.
func (l *Loader) Parse(data []byte, format Format) (*Definition, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}

	doc, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return l.Compile(doc)
}

// Decode maps a generic document onto dto.FormDocument. Scalar initial values of any
// kind are accepted and turned into text.
func Decode(raw map[string]any) (dto.FormDocument, error) {
	var doc dto.FormDocument
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       boolToText,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &doc,
	})
	if err != nil {
		return doc, err
	}
	if err := dec.Decode(raw); err != nil {
		return doc, fmt.Errorf("failed to decode form document: %w", err)
	}
	return doc, nil
}

// boolToText keeps booleans readable; weak decoding alone would turn them into "1"/"0".
func boolToText(from, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.Bool && to.Kind() == reflect.String {
		return strconv.FormatBool(data.(bool)), nil
	}
	return data, nil
}

// Compile turns a decoded document into a validated form definition.
func (l *Loader) Compile(doc dto.FormDocument) (*Definition, error) {
	def := &Definition{
		Config: domain.FormConfig[string, string]{
			Name:   doc.Name,
			Fields: make(map[string]domain.FieldConfig[string], len(doc.Fields)),
		},
		Schema: make(schema.Schema, len(doc.Fields)),
	}

	var problems []error
	for _, id := range slices.Sorted(maps.Keys(doc.Fields)) {
		field, typ, errs := l.compileField(id, doc.Fields[id])
		problems = append(problems, errs...)
		def.Config.Fields[id] = field
		def.Schema[id] = typ
	}

	constraints, err := l.registry.GlobalConstraints(doc.Global.Constraints)
	if err != nil {
		problems = append(problems, problem("", "", err))
	}
	def.Config.GlobalConstraints = constraints

	for i, md := range doc.Global.Messages {
		rule, err := l.compileGlobalMessage(md)
		if err != nil {
			problems = append(problems, problem("", fmt.Sprintf("global message #%d", i), err))
			continue
		}
		def.Config.GlobalMessages = append(def.Config.GlobalMessages, rule)
	}

	if len(problems) > 0 {
		return nil, &domain.ConfigError{Form: doc.Name, Errors: problems}
	}
	if err := def.Config.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func (l *Loader) compileField(id string, fd dto.FieldDocument) (domain.FieldConfig[string], schema.Type, []error) {
	var problems []error
	fail := func(context string, err error) {
		problems = append(problems, problem(id, context, err))
	}

	typ, err := schema.ParseType(fd.Type)
	if err != nil {
		fail("", err)
		typ = schema.String()
	}

	field := domain.FieldConfig[string]{
		Initial: fd.Initial,
		Props:   fd.Props,
	}
	if fd.Type != "" {
		if field.Props == nil {
			field.Props = make(map[string]any)
		}
		if _, ok := field.Props["type"]; !ok {
			field.Props["type"] = typ.Name()
		}
	}

	if fd.Initial != "" {
		if err := schema.Validate(typ, fd.Initial); err != nil {
			fail("initial value", err)
		}
	}

	field.Constraints, err = l.registry.Constraints(fd.Constraints)
	if err != nil {
		fail("", err)
	}

	if typ.Name() != schema.String().Name() {
		field.Messages = append(field.Messages, typeRule(typ))
	}
	for i, md := range fd.Messages {
		test, err := l.registry.When(md.When)
		if err != nil {
			fail(fmt.Sprintf("message #%d", i), err)
			continue
		}
		severity, err := domain.ParseSeverity(md.Severity)
		if err != nil {
			fail(fmt.Sprintf("message #%d", i), err)
			continue
		}
		field.Messages = append(field.Messages, domain.MessageRule[string]{
			Test:     test,
			Message:  md.Message,
			Severity: severity,
		})
	}
	return field, typ, problems
}

func (l *Loader) compileGlobalMessage(md dto.GlobalMessageDocument) (domain.GlobalMessageRule[string, string], error) {
	test, err := l.registry.GlobalWhen(md.When)
	if err != nil {
		return domain.GlobalMessageRule[string, string]{}, err
	}
	severity, err := domain.ParseSeverity(md.Severity)
	if err != nil {
		return domain.GlobalMessageRule[string, string]{}, err
	}
	return domain.GlobalMessageRule[string, string]{
		Test:     test,
		Message:  md.Message,
		Severity: severity,
	}, nil
}

func problem(field, context string, err error) *domain.FieldError {
	reason := err.Error()
	if context != "" {
		reason = context + ": " + reason
	}
	return &domain.FieldError{Field: field, Reason: reason, Err: err}
}

// typeRule reports text that does not parse as typ. Empty text is left to the
// field's own rules.
func typeRule(typ schema.Type) domain.MessageRule[string] {
	return domain.MessageRule[string]{
		Test: func(v string) bool {
			return v != "" && schema.Validate(typ, v) != nil
		},
		Message:  fmt.Sprintf("Must be a valid %s", typ.Name()),
		Severity: domain.SeverityError,
	}
}
