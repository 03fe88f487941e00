package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/sform"
	"github.com/aretw0/sform/pkg/adapters/file"
	"github.com/aretw0/sform/pkg/domain"
	"github.com/aretw0/sform/pkg/rules"
)

// FormOptions configures how a form file is turned into a live form.
type FormOptions struct {
	Path     string
	Debug    bool
	Logger   *slog.Logger
	Registry *rules.Registry
	Hooks    []domain.LifecycleHooks
}

// LoadForm loads the form file at opts.Path and initializes a form positioned on its
// initial values.
func LoadForm(opts FormOptions) (*sform.Form[string, string], *file.Definition, error) {
	logger := opts.Logger
	if logger == nil {
		logger = createLogger(opts.Debug)
	}

	var loaderOpts []file.LoaderOption
	if opts.Registry != nil {
		loaderOpts = append(loaderOpts, file.WithRegistry(opts.Registry))
	}
	def, err := file.NewLoader(loaderOpts...).Load(opts.Path)
	if err != nil {
		return nil, nil, err
	}
	if def.Config.Name == "" {
		def.Config.Name = formName(opts.Path)
	}

	formOpts := []sform.Option{sform.WithLogger(logger)}
	if opts.Debug {
		formOpts = append(formOpts, sform.WithLifecycleHooks(createDebugHooks(logger)))
	}
	for _, h := range opts.Hooks {
		formOpts = append(formOpts, sform.WithLifecycleHooks(h))
	}

	form, err := sform.New(def.Config, formOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing form: %w", err)
	}
	return form, def, nil
}

// formName derives a display name from the file name, "forms/signup.yaml" -> "signup".
func formName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
