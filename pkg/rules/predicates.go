package rules

import (
	"strings"
	"unicode/utf8"
)

func registerPredicates(r *Registry) {
	r.RegisterPredicate("contains", func(arg any) (func(string) bool, error) {
		s, err := stringArg("contains", arg)
		if err != nil {
			return nil, err
		}
		return func(v string) bool { return strings.Contains(v, s) }, nil
	})

	r.RegisterPredicate("not_contains", func(arg any) (func(string) bool, error) {
		s, err := stringArg("not_contains", arg)
		if err != nil {
			return nil, err
		}
		return func(v string) bool { return !strings.Contains(v, s) }, nil
	})

	r.RegisterPredicate("matches", func(arg any) (func(string) bool, error) {
		re, err := regexpArg("matches", arg)
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil
	})

	r.RegisterPredicate("not_matches", func(arg any) (func(string) bool, error) {
		re, err := regexpArg("not_matches", arg)
		if err != nil {
			return nil, err
		}
		return func(v string) bool { return !re.MatchString(v) }, nil
	})

	r.RegisterPredicate("empty", func(any) (func(string) bool, error) {
		return func(v string) bool { return v == "" }, nil
	})

	r.RegisterPredicate("not_empty", func(any) (func(string) bool, error) {
		return func(v string) bool { return v != "" }, nil
	})

	r.RegisterPredicate("longer_than", func(arg any) (func(string) bool, error) {
		n, err := lengthArg("longer_than", arg)
		if err != nil {
			return nil, err
		}
		return func(v string) bool { return utf8.RuneCountInString(v) > n }, nil
	})

	r.RegisterPredicate("shorter_than", func(arg any) (func(string) bool, error) {
		n, err := lengthArg("shorter_than", arg)
		if err != nil {
			return nil, err
		}
		return func(v string) bool { return utf8.RuneCountInString(v) < n }, nil
	})

	r.RegisterPredicate("equals", func(arg any) (func(string) bool, error) {
		var s string
		if err := decode("equals", arg, &s); err != nil {
			return nil, err
		}
		return func(v string) bool { return v == s }, nil
	})
}

func lengthArg(name string, arg any) (int, error) {
	if arg == nil {
		return 0, invalid(name, "length is required")
	}
	var n int
	if err := decode(name, arg, &n); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, invalid(name, "length must not be negative, got %d", n)
	}
	return n, nil
}
