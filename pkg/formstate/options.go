package formstate

import (
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-formstate/pkg/rules"
)

// FormOption configures a Form.
type FormOption func(*Form)

// WithRegistry sets the rule registry. The form works on a clone so later
// custom rules never leak into the shared registry.
func WithRegistry(registry *rules.Registry) FormOption {
	return func(f *Form) {
		if registry != nil {
			f.registry = registry
		}
	}
}

// WithCustomRules registers form-wide custom rules. They replace built-ins
// sharing the same name.
func WithCustomRules(custom map[string]rules.Rule) FormOption {
	return func(f *Form) {
		for name, rule := range custom {
			if f.custom == nil {
				f.custom = make(map[string]rules.Rule, len(custom))
			}
			f.custom[name] = rule
		}
	}
}

// WithLogger attaches a structured logger. Forms log nothing by default.
func WithLogger(logger *slog.Logger) FormOption {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithDebounce sets the delay fields apply to external change callbacks.
func WithDebounce(delay time.Duration) FormOption {
	return func(f *Form) {
		if delay >= 0 {
			f.debounce = delay
		}
	}
}

// WithID overrides the generated form instance id.
func WithID(id string) FormOption {
	return func(f *Form) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			f.id = trimmed
		}
	}
}

// UpdateOption tweaks a single UpdateField call.
type UpdateOption func(*updateConfig)

type updateConfig struct {
	validate bool
}

// SkipValidation stores the caller supplied error verbatim, without running
// the rule engine.
func SkipValidation() UpdateOption {
	return func(cfg *updateConfig) {
		cfg.validate = false
	}
}
