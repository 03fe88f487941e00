package rules

import (
	"regexp"

	"github.com/aretw0/sform/pkg/domain"
)

type fieldsArgs struct {
	Fields []string `mapstructure:"fields"`
}

type patternArgs struct {
	Fields  []string `mapstructure:"fields"`
	Pattern string   `mapstructure:"pattern"`
}

func registerGlobals(r *Registry) {
	// upper, lower and trim take the list of fields they rewrite.
	for _, name := range []string{"upper", "lower", "trim"} {
		r.RegisterGlobalConstraint(name, func(arg any) (domain.GlobalConstraint[string, string], error) {
			fields, err := fieldList(name, arg)
			if err != nil {
				return nil, err
			}
			return r.applyTo(name, fields, []map[string]any{{name: nil}})
		})
	}

	r.RegisterGlobalConstraint("apply", func(arg any) (domain.GlobalConstraint[string, string], error) {
		var args struct {
			Fields      []string         `mapstructure:"fields"`
			Constraints []map[string]any `mapstructure:"constraints"`
		}
		if err := decode("apply", arg, &args); err != nil {
			return nil, err
		}
		return r.applyTo("apply", args.Fields, args.Constraints)
	})

	r.RegisterGlobalConstraint("copy", func(arg any) (domain.GlobalConstraint[string, string], error) {
		var args struct {
			From string `mapstructure:"from"`
			To   string `mapstructure:"to"`
		}
		if err := decode("copy", arg, &args); err != nil {
			return nil, err
		}
		if args.From == "" || args.To == "" {
			return nil, invalid("copy", "from and to are required")
		}
		return func(v Values) Values {
			v[args.To] = v[args.From]
			return v
		}, nil
	})

	r.RegisterGlobalPredicate("none_match", func(arg any) (func(Values) bool, error) {
		fields, re, err := patternArg("none_match", arg)
		if err != nil {
			return nil, err
		}
		return func(v Values) bool {
			for _, f := range fields {
				if re.MatchString(v[f]) {
					return false
				}
			}
			return true
		}, nil
	})

	r.RegisterGlobalPredicate("any_match", func(arg any) (func(Values) bool, error) {
		fields, re, err := patternArg("any_match", arg)
		if err != nil {
			return nil, err
		}
		return func(v Values) bool {
			for _, f := range fields {
				if re.MatchString(v[f]) {
					return true
				}
			}
			return false
		}, nil
	})

	r.RegisterGlobalPredicate("all_empty", func(arg any) (func(Values) bool, error) {
		fields, err := fieldsArg("all_empty", arg, 1)
		if err != nil {
			return nil, err
		}
		return func(v Values) bool {
			for _, f := range fields {
				if v[f] != "" {
					return false
				}
			}
			return true
		}, nil
	})

	r.RegisterGlobalPredicate("any_empty", func(arg any) (func(Values) bool, error) {
		fields, err := fieldsArg("any_empty", arg, 1)
		if err != nil {
			return nil, err
		}
		return func(v Values) bool {
			for _, f := range fields {
				if v[f] == "" {
					return true
				}
			}
			return false
		}, nil
	})

	r.RegisterGlobalPredicate("equal", func(arg any) (func(Values) bool, error) {
		fields, err := fieldsArg("equal", arg, 2)
		if err != nil {
			return nil, err
		}
		return func(v Values) bool { return allEqual(v, fields) }, nil
	})

	r.RegisterGlobalPredicate("not_equal", func(arg any) (func(Values) bool, error) {
		fields, err := fieldsArg("not_equal", arg, 2)
		if err != nil {
			return nil, err
		}
		return func(v Values) bool { return !allEqual(v, fields) }, nil
	})
}

// applyTo runs a field constraint chain over each listed field that is present in
// the values.
func (r *Registry) applyTo(name string, fields []string, docs []map[string]any) (domain.GlobalConstraint[string, string], error) {
	if len(fields) == 0 {
		return nil, invalid(name, "at least one field is required")
	}
	chain, err := r.Constraints(docs)
	if err != nil {
		return nil, err
	}
	return func(v Values) Values {
		for _, f := range fields {
			cur, ok := v[f]
			if !ok {
				continue
			}
			for _, c := range chain {
				cur = c(cur)
			}
			v[f] = cur
		}
		return v
	}, nil
}

// fieldList accepts either {fields: [...]} or the bare list as shorthand.
func fieldList(name string, arg any) ([]string, error) {
	if _, ok := arg.(map[string]any); ok {
		var args fieldsArgs
		if err := decode(name, arg, &args); err != nil {
			return nil, err
		}
		return args.Fields, nil
	}
	var fields []string
	if err := decode(name, arg, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func fieldsArg(name string, arg any, least int) ([]string, error) {
	fields, err := fieldList(name, arg)
	if err != nil {
		return nil, err
	}
	if len(fields) < least {
		return nil, invalid(name, "needs at least %d field(s), got %d", least, len(fields))
	}
	return fields, nil
}

func patternArg(name string, arg any) ([]string, *regexp.Regexp, error) {
	var args patternArgs
	if err := decode(name, arg, &args); err != nil {
		return nil, nil, err
	}
	if len(args.Fields) == 0 {
		return nil, nil, invalid(name, "at least one field is required")
	}
	re, err := regexp.Compile(args.Pattern)
	if err != nil {
		return nil, nil, invalid(name, "%v", err)
	}
	return args.Fields, re, nil
}

func allEqual(v Values, fields []string) bool {
	first := v[fields[0]]
	for _, f := range fields[1:] {
		if v[f] != first {
			return false
		}
	}
	return true
}
