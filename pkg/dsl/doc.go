/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing sform forms.

It allows developers to declare fields, constraints and message rules using a type-safe, fluent
builder pattern instead of relying on external YAML or JSON files. Field ids can be an enumerated
string type, so a typo in a rule is a compile error rather than a silent no-op.

Example usage:

	type Field string

	const (
		Name     Field = "name"
		Lastname Field = "lastname"
	)

	b := dsl.New[Field, string]("signup")

	b.Field(Name).
		Initial("text").
		Label("Name").
		Constrain(func(v string) string { return strings.Replace(v, "i", "", 1) }).
		Message(func(v string) bool { return strings.Contains(v, "a") }, "Must not contain the letter 'a'")

	b.Transform(func(v domain.Values[Field, string]) domain.Values[Field, string] {
		v[Lastname] = strings.ToUpper(v[Lastname])
		return v
	})

	cfg, err := b.Build()
	// ... pass cfg to sform.New(cfg)
*/
package dsl
