// Package prompt fills a mounted form interactively. Every answer goes through
// the same component calls a UI would make: text inputs are changed then
// blurred, choices are selected, so validation messages match what a user
// would see on screen.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formstate/pkg/fields"
	"github.com/goliatone/go-formstate/pkg/formstate"
)

// Runner asks for every component in order.
type Runner struct {
	driver      Driver
	logger      *slog.Logger
	maxAttempts int
}

// New constructs a runner with defaults (survey driver, silent logger).
func New(options ...Option) *Runner {
	r := &Runner{
		driver: NewSurveyDriver(nil),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Run prompts for each component. Invalid answers are reported through
// Driver.Info and asked again. Driver errors, including ErrAborted, stop the
// run.
func (r *Runner) Run(ctx context.Context, components []fields.Component) error {
	if ctx == nil {
		return errors.New("prompt: context is required")
	}
	for _, component := range components {
		if err := ctx.Err(); err != nil {
			return err
		}
		field, ok := component.Field()
		if !ok {
			return fmt.Errorf("%w: %q", fields.ErrNotMounted, component.ID())
		}

		var err error
		switch c := component.(type) {
		case *fields.Text:
			err = r.promptText(ctx, c, field)
		case *fields.Choice:
			err = r.promptChoice(ctx, c, field)
		case *fields.MultiChoice:
			err = r.promptMulti(ctx, c, field)
		default:
			err = fmt.Errorf("%w %T for field %q", ErrUnsupportedComponent, component, component.ID())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) promptText(ctx context.Context, text *fields.Text, field formstate.Field) error {
	label := displayLabel(field)
	return r.retry(ctx, field, func() (string, error) {
		current, _ := text.Field()
		cfg := InputConfig{
			Message: label,
			Default: current.Value.String(),
			Help:    field.Placeholder,
		}

		var response string
		var err error
		switch field.Type {
		case formstate.FieldTypePassword:
			cfg.Default = ""
			response, err = r.driver.Password(ctx, cfg)
		case formstate.FieldTypeTextArea:
			response, err = r.driver.TextArea(ctx, cfg)
		default:
			response, err = r.driver.Input(ctx, cfg)
		}
		if err != nil {
			return "", err
		}

		if _, err := text.Change(response); err != nil {
			return "", err
		}
		updated, err := text.Blur()
		if err != nil {
			return "", err
		}
		text.Flush()
		return updated.Error, nil
	})
}

func (r *Runner) promptChoice(ctx context.Context, choice *fields.Choice, field formstate.Field) error {
	options := choice.Options()
	names := optionNames(options)
	return r.retry(ctx, field, func() (string, error) {
		current, _ := choice.Field()
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(field),
			Options:      names,
			DefaultIndex: optionIndex(options, current.Value.String()),
			Help:         field.Placeholder,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(options) {
			return "unknown selection", nil
		}
		updated, err := choice.Select(options[idx].Value)
		if err != nil {
			return "", err
		}
		return updated.Error, nil
	})
}

func (r *Runner) promptMulti(ctx context.Context, multi *fields.MultiChoice, field formstate.Field) error {
	options := multi.Options()
	names := optionNames(options)
	return r.retry(ctx, field, func() (string, error) {
		current, _ := multi.Field()
		var defaults []int
		for _, item := range current.Value.Items() {
			if idx := optionIndex(options, item); idx >= 0 {
				defaults = append(defaults, idx)
			}
		}
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  displayLabel(field),
			Options:  names,
			Defaults: defaults,
			Help:     field.Placeholder,
		})
		if err != nil {
			return "", err
		}
		values := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx < 0 || idx >= len(options) {
				return "unknown selection", nil
			}
			values = append(values, options[idx].Value)
		}
		updated, err := multi.Set(values...)
		if err != nil {
			return "", err
		}
		return updated.Error, nil
	})
}

// retry runs ask until it reports no problem, the attempt budget runs out or
// the driver fails.
func (r *Runner) retry(ctx context.Context, field formstate.Field, ask func() (string, error)) error {
	label := displayLabel(field)
	for attempt := 1; ; attempt++ {
		problem, err := ask()
		if err != nil {
			return err
		}
		if problem == "" {
			return nil
		}
		_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", label, problem))
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			r.logger.Warn("giving up on invalid field",
				slog.String("field", field.ID),
				slog.Int("attempts", attempt),
				slog.String("error", problem),
			)
			return nil
		}
	}
}

func displayLabel(field formstate.Field) string {
	if label := strings.TrimSpace(field.Label); label != "" {
		return label
	}
	return field.Name()
}

func optionNames(options []formstate.Option) []string {
	names := make([]string, 0, len(options))
	for _, option := range options {
		name := option.Name
		if strings.TrimSpace(name) == "" {
			name = option.Value
		}
		names = append(names, name)
	}
	return names
}

func optionIndex(options []formstate.Option, value string) int {
	for i, option := range options {
		if option.Value == value {
			return i
		}
	}
	return -1
}
