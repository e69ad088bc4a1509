package prompt

import "log/slog"

// Option configures a Runner.
type Option func(*Runner)

// WithDriver overrides the prompt driver used by the runner.
func WithDriver(driver Driver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxAttempts bounds how many times an invalid field is asked again.
// Zero keeps asking until the value is valid.
func WithMaxAttempts(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}
