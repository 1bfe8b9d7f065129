package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/platformbuilds/mirador-console/internal/timeparse"
)

var clock = timeparse.FixedClock{T: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}

func writeDefinition(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "widget.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRun_Valid(t *testing.T) {
	path := writeDefinition(t, `
type: honeycomb
fields:
  groupids: ["2"]
  items: ["CPU utilization"]
  primary_label_size: "40"
  bg_color: "FF0000"
`)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", path, "-strict"}, &stdout, &stderr, clock)
	require.Equal(t, 0, code, stderr.String())

	var out []fieldValue
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &out))
	assert.Contains(t, out, fieldValue{Type: "group", Name: "groupids.0", Value: "2"})
	assert.Contains(t, out, fieldValue{Type: "str", Name: "items.0", Value: "CPU utilization"})
	assert.Contains(t, out, fieldValue{Type: "int32", Name: "primary_label_size", Value: 40})
	assert.Contains(t, out, fieldValue{Type: "str", Name: "bg_color", Value: "FF0000"})
}

func TestRun_ValidationErrors(t *testing.T) {
	path := writeDefinition(t, `
type: honeycomb
fields:
  bg_color: "#fff"
`)
	tests := []struct {
		name     string
		args     []string
		code     int
		contains []string
		missing  []string
	}{
		{
			name:     "strict",
			args:     []string{"-f", path, "-strict"},
			code:     1,
			contains: []string{`"Item pattern": cannot be empty.`, `"Background color"`},
		},
		{
			name:     "lenient",
			args:     []string{"-f", path},
			code:     1,
			contains: []string{`"Background color"`},
			missing:  []string{`"Item pattern"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.code, run(tt.args, &stdout, &stderr, clock))
			assert.Empty(t, stdout.String())
			for _, s := range tt.contains {
				assert.Contains(t, stderr.String(), s)
			}
			for _, s := range tt.missing {
				assert.NotContains(t, stderr.String(), s)
			}
		})
	}
}

func TestRun_Russian(t *testing.T) {
	path := writeDefinition(t, "type: honeycomb\nfields: {}\n")
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"-f", path, "-strict", "-lang", "ru"}, &stdout, &stderr, clock))
	assert.NotContains(t, stderr.String(), "Invalid parameter")
	assert.NotEmpty(t, stderr.String())
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		code    int
		message string
	}{
		{name: "no file", args: nil, code: 2, message: "-f is required"},
		{name: "missing file", args: []string{"-f", filepath.Join(t.TempDir(), "nope.yaml")}, code: 2, message: "no such file"},
		{name: "bad timezone", args: []string{"-f", "x.yaml", "-tz", "Mars/Olympus"}, code: 2, message: "invalid time zone"},
		{name: "missing type", args: []string{"-f", writeDefinition(t, "fields: {}\n")}, code: 2, message: "widget type is missing"},
		{name: "unknown type", args: []string{"-f", writeDefinition(t, "type: clock\n")}, code: 1, message: "known types: [honeycomb]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.code, run(tt.args, &stdout, &stderr, clock))
			assert.Contains(t, stderr.String(), tt.message)
		})
	}
}
