// cmd/formcheck/main.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/javajoker/taxonomy-admin/internal/i18n"
	"github.com/javajoker/taxonomy-admin/internal/metrics"
	"github.com/javajoker/taxonomy-admin/internal/models"
	"github.com/javajoker/taxonomy-admin/internal/schema"
	"github.com/javajoker/taxonomy-admin/internal/services"
)

const (
	exitValid   = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	fieldsPath  string
	valuesPath  string
	lang        string
	format      string
	schemaOnly  bool
	metricsFile string
	verbose     bool
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("formcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.fieldsPath, "fields", "f", "", "field definitions file (YAML or JSON)")
	fs.StringVarP(&opts.valuesPath, "values", "v", "", "form values file (YAML or JSON)")
	fs.StringVarP(&opts.lang, "lang", "l", "en", "message language (en, zh_TW)")
	fs.StringVarP(&opts.format, "output", "o", "text", "output format: text or json")
	fs.BoolVar(&opts.schemaOnly, "schema", false, "print the derived schema instead of validating")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write validation metrics to this textfile")
	fs.BoolVar(&opts.verbose, "verbose", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: formcheck --fields defs.yaml [--values values.yaml] [flags]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitValid
		}
		return exitUsage
	}
	if opts.fieldsPath == "" {
		fmt.Fprintln(stderr, "formcheck: --fields is required")
		fs.Usage()
		return exitUsage
	}
	if opts.format != "text" && opts.format != "json" {
		fmt.Fprintf(stderr, "formcheck: unknown output format %q\n", opts.format)
		return exitUsage
	}

	logrus.SetOutput(stderr)
	if opts.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := i18n.Initialize("en"); err != nil {
		fmt.Fprintf(stderr, "formcheck: %v\n", err)
		return exitUsage
	}

	fields, err := loadFields(opts.fieldsPath)
	if err != nil {
		fmt.Fprintf(stderr, "formcheck: %v\n", err)
		return exitUsage
	}
	values := models.FormValues{}
	if opts.valuesPath != "" {
		if values, err = loadValues(opts.valuesPath); err != nil {
			fmt.Fprintf(stderr, "formcheck: %v\n", err)
			return exitUsage
		}
	}

	if opts.schemaOnly {
		formSchema := schema.BuildFormSchema(fields, values)
		desc := services.SchemaDescription{Schema: formSchema, ConfigErrors: formSchema.ConfigErrors()}
		if err := writeJSON(stdout, desc); err != nil {
			fmt.Fprintf(stderr, "formcheck: %v\n", err)
			return exitUsage
		}
		return exitValid
	}

	result := services.LocalizeResult(opts.lang, schema.ValidateForm(fields, values))
	logrus.WithFields(logrus.Fields{
		"fields":  len(fields),
		"success": result.Success,
	}).Debug("Form validated")

	if opts.metricsFile != "" {
		m := metrics.New()
		m.ObserveValidation("cli", result.Success)
		if err := m.WriteTextfile(opts.metricsFile); err != nil {
			logrus.WithError(err).Warn("Failed to write metrics textfile")
		}
	}

	if opts.format == "json" {
		if err := writeJSON(stdout, result); err != nil {
			fmt.Fprintf(stderr, "formcheck: %v\n", err)
			return exitUsage
		}
	} else {
		writeText(stdout, result)
	}

	if !result.Success {
		return exitInvalid
	}
	return exitValid
}

// loadFields reads a field list, bare or under fieldDefinitions, in either
// key casing. JSON is valid YAML, so one decoder serves both.
func loadFields(path string) ([]models.FieldDefinition, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if record, ok := models.NormalizeKeys(doc).(map[string]any); ok {
		doc = record["fieldDefinitions"]
		if doc == nil {
			return nil, fmt.Errorf("%s: no fieldDefinitions list", path)
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	fields, err := models.DecodeFieldDefinitions(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fields, nil
}

func loadValues(path string) (models.FormValues, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return models.FormValues{}, nil
	}
	record, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: values must be a mapping", path)
	}
	return models.FormValues(record), nil
}

func readDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeText(w io.Writer, result schema.Result) {
	if result.Success {
		fmt.Fprintln(w, "valid")
		names := make([]string, 0, len(result.Data))
		for name := range result.Data {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s = %v\n", name, result.Data[name])
		}
		return
	}

	fmt.Fprintln(w, "invalid")
	names := make([]string, 0, len(result.Errors))
	for name := range result.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, result.Errors[name])
	}
}
