// Command widgetctl validates widget definitions offline, the same way the
// console does when a widget is saved.
//
//	widgetctl -f widget.yaml [-strict] [-tz Europe/Riga] [-lang ru]
//
// A definition names the widget type and its field values:
//
//	type: honeycomb
//	template_dashboard: false
//	fields:
//	  items: ["CPU utilization"]
//	  bg_color: "FF0000"
//
// On success the persisted field list is printed as YAML. Otherwise the
// error messages are printed and the exit code is 1.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/platformbuilds/mirador-console/internal/i18n"
	"github.com/platformbuilds/mirador-console/internal/timeparse"
	"github.com/platformbuilds/mirador-console/internal/widgets"
	"github.com/platformbuilds/mirador-console/internal/widgets/honeycomb"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

// definition is a widget as written in a YAML file.
type definition struct {
	Type              string         `yaml:"type"`
	TemplateDashboard bool           `yaml:"template_dashboard"`
	Fields            map[string]any `yaml:"fields"`
}

type fieldValue struct {
	Type  string `yaml:"type"`
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, timeparse.SystemClock{}))
}

func run(args []string, stdout, stderr io.Writer, clock timeparse.Clock) int {
	fs := flag.NewFlagSet("widgetctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("f", "", "widget definition (YAML); - reads stdin")
	strict := fs.Bool("strict", false, "enforce mandatory fields, as on save")
	tz := fs.String("tz", "UTC", "time zone for dates and times")
	lang := fs.String("lang", "en", "language of error messages")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *file == "" {
		fmt.Fprintln(stderr, "widgetctl: -f is required")
		fs.Usage()
		return 2
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Fprintf(stderr, "widgetctl: invalid time zone %q: %v\n", *tz, err)
		return 2
	}
	bundle, err := i18n.New("en", logger.NewNop())
	if err != nil {
		fmt.Fprintf(stderr, "widgetctl: %v\n", err)
		return 2
	}
	tr := bundle.Translator(bundle.Match(*lang))

	def, err := readDefinition(*file)
	if err != nil {
		fmt.Fprintf(stderr, "widgetctl: %v\n", err)
		return 2
	}

	registry := widgets.NewRegistry()
	honeycomb.Register(registry)
	form, err := registry.New(def.Type, def.Fields, widgets.FormOptions{
		TemplateDashboard: def.TemplateDashboard,
		Parser:            timeparse.New(loc, clock),
	})
	if err != nil {
		fmt.Fprintf(stderr, "widgetctl: %v (known types: %v)\n", err, registry.Types())
		return 1
	}

	if errs := form.Validate(*strict); len(errs) > 0 {
		for _, msg := range widgets.Messages(errs, tr) {
			fmt.Fprintln(stderr, msg)
		}
		return 1
	}

	api := form.ToAPI()
	out := make([]fieldValue, 0, len(api))
	for _, fv := range api {
		out = append(out, fieldValue{Type: fv.Type.String(), Name: fv.Name, Value: fv.Value})
	}
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "widgetctl: %v\n", err)
		return 2
	}
	_ = enc.Close()
	return 0
}

func readDefinition(path string) (*definition, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var def definition
	if err := yaml.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if def.Type == "" {
		return nil, fmt.Errorf("%s: widget type is missing", path)
	}
	if def.Fields == nil {
		def.Fields = map[string]any{}
	}
	return &def, nil
}
