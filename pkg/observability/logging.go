package observability

import (
	"log/slog"

	"github.com/aretw0/sform/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured record per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEdit: func(e *domain.EditEvent) {
			logger.Info("edit", "form", e.Form, "field", e.Field)
		},
		OnIgnored: func(e *domain.EditEvent) {
			logger.Warn("edit_ignored", "form", e.Form, "field", e.Field)
		},
		OnSettle: func(e *domain.SettleEvent) {
			logger.Info("settled",
				"form", e.Form,
				"field", e.Field,
				"version", e.Version,
				"changed", e.Changed,
				"duration", e.Duration,
			)
		},
	}
}
