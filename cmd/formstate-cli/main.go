package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/prompt"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// submission is what the CLI prints once every field has been asked.
type submission struct {
	Form     string            `json:"form,omitempty" yaml:"form,omitempty"`
	Title    string            `json:"title,omitempty" yaml:"title,omitempty"`
	Instance string            `json:"instance" yaml:"instance"`
	Valid    bool              `json:"valid" yaml:"valid"`
	Values   map[string]any    `json:"values" yaml:"values"`
	Errors   map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], nil, os.Stdout, os.Stderr, prompt.NewSurveyDriver(os.Stderr))
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case errors.Is(err, prompt.ErrAborted), errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(130)
	default:
		log.Fatalf("formstate: %v", err)
	}
}

func run(ctx context.Context, args []string, environ map[string]string, stdout, stderr io.Writer, driver prompt.Driver) error {
	flags := flag.NewFlagSet("formstate-cli", flag.ContinueOnError)
	flags.SetOutput(stderr)
	definition := flags.String("definition", "", "form definition file (YAML or JSON)")
	openapiPath := flags.String("openapi", "", "OpenAPI document to derive the form from")
	operation := flags.String("operation", "", "operation ID used with -openapi")
	output := flags.String("output", "", "output format: json or yaml (overrides FORMSTATE_OUTPUT)")
	outFile := flags.String("out", "", "output file (stdout if empty)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(environ)
	if err != nil {
		return err
	}
	if *output != "" {
		cfg.Output = strings.ToLower(strings.TrimSpace(*output))
		if err := checkOutput(cfg.Output); err != nil {
			return err
		}
	}
	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}

	def, err := loadDefinition(ctx, *definition, *openapiPath, *operation)
	if err != nil {
		return err
	}

	form, err := formstate.New(
		formstate.WithLogger(logger),
		formstate.WithDebounce(cfg.Debounce),
	)
	if err != nil {
		return err
	}
	defer form.Close()

	components, err := def.Mount(form, nil)
	if err != nil {
		return err
	}
	logger.Debug("form mounted", slog.String("definition", def.ID), slog.Int("fields", len(components)))

	runner := prompt.New(
		prompt.WithDriver(driver),
		prompt.WithLogger(logger),
		prompt.WithMaxAttempts(cfg.MaxAttempts),
	)
	if err := runner.Run(ctx, components); err != nil {
		return err
	}

	failures, err := form.ValidateAll()
	if err != nil {
		return err
	}
	result := submission{
		Form:     def.ID,
		Title:    def.Title,
		Instance: form.ID(),
		Valid:    len(failures) == 0,
		Values:   form.Values(),
		Errors:   failures,
	}
	payload, err := encode(cfg.Output, result)
	if err != nil {
		return err
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, payload, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(stderr, "Submission written to %s\n", *outFile)
	} else if _, err := stdout.Write(payload); err != nil {
		return err
	}
	logger.Info("form submitted", slog.String("instance", result.Instance), slog.Bool("valid", result.Valid))
	return nil
}

func loadDefinition(ctx context.Context, definition, openapiPath, operation string) (formdef.Definition, error) {
	switch {
	case definition != "" && openapiPath != "":
		return formdef.Definition{}, errors.New("use either -definition or -openapi, not both")
	case definition != "":
		return formdef.Load(definition)
	case openapiPath != "":
		if strings.TrimSpace(operation) == "" {
			return formdef.Definition{}, errors.New("-operation is required with -openapi")
		}
		data, err := os.ReadFile(openapiPath)
		if err != nil {
			return formdef.Definition{}, fmt.Errorf("read %s: %w", openapiPath, err)
		}
		return formdef.FromOpenAPI(ctx, data, operation)
	default:
		return formdef.Definition{}, errors.New("one of -definition or -openapi is required")
	}
}

func encode(format string, result submission) ([]byte, error) {
	switch format {
	case outputYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(payload, '\n'), nil
	}
}
