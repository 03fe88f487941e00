package rules

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aretw0/sform/pkg/domain"
)

func registerConstraints(r *Registry) {
	r.RegisterConstraint("remove", func(arg any) (domain.Constraint[string], error) {
		s, err := stringArg("remove", arg)
		if err != nil {
			return nil, err
		}
		return func(v string) string { return strings.Replace(v, s, "", 1) }, nil
	})

	r.RegisterConstraint("remove_all", func(arg any) (domain.Constraint[string], error) {
		s, err := stringArg("remove_all", arg)
		if err != nil {
			return nil, err
		}
		return func(v string) string { return strings.ReplaceAll(v, s, "") }, nil
	})

	r.RegisterConstraint("replace", func(arg any) (domain.Constraint[string], error) {
		var args struct {
			Old string `mapstructure:"old"`
			New string `mapstructure:"new"`
		}
		if err := decode("replace", arg, &args); err != nil {
			return nil, err
		}
		if args.Old == "" {
			return nil, invalid("replace", "old must not be empty")
		}
		return func(v string) string { return strings.ReplaceAll(v, args.Old, args.New) }, nil
	})

	r.RegisterConstraint("upper", caser(func() cases.Caser { return cases.Upper(language.Und) }))
	r.RegisterConstraint("lower", caser(func() cases.Caser { return cases.Lower(language.Und) }))
	r.RegisterConstraint("title", caser(func() cases.Caser { return cases.Title(language.Und) }))

	r.RegisterConstraint("trim", func(any) (domain.Constraint[string], error) {
		return strings.TrimSpace, nil
	})

	r.RegisterConstraint("truncate", func(arg any) (domain.Constraint[string], error) {
		if arg == nil {
			return nil, invalid("truncate", "length is required")
		}
		var n int
		if err := decode("truncate", arg, &n); err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, invalid("truncate", "length must not be negative, got %d", n)
		}
		return func(v string) string {
			runes := []rune(v)
			if len(runes) <= n {
				return v
			}
			return string(runes[:n])
		}, nil
	})

	r.RegisterConstraint("strip", func(arg any) (domain.Constraint[string], error) {
		re, err := regexpArg("strip", arg)
		if err != nil {
			return nil, err
		}
		return func(v string) string { return re.ReplaceAllString(v, "") }, nil
	})

	r.RegisterConstraint("digits", func(any) (domain.Constraint[string], error) {
		return func(v string) string {
			return strings.Map(func(r rune) rune {
				if unicode.IsDigit(r) {
					return r
				}
				return -1
			}, v)
		}, nil
	})
}

// caser builds a constraint from a cases.Caser constructor. A Caser is stateful and
// not safe for concurrent use, so every call builds its own.
func caser(newCaser func() cases.Caser) ConstraintFactory {
	return func(any) (domain.Constraint[string], error) {
		return func(v string) string { return newCaser().String(v) }, nil
	}
}

func stringArg(name string, arg any) (string, error) {
	var s string
	if err := decode(name, arg, &s); err != nil {
		return "", err
	}
	if s == "" {
		return "", invalid(name, "argument must not be empty")
	}
	return s, nil
}

func regexpArg(name string, arg any) (*regexp.Regexp, error) {
	pattern, err := stringArg(name, arg)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, invalid(name, "%v", err)
	}
	return re, nil
}
