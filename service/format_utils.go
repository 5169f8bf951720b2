package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tocque/eventflow/domain"
	"gopkg.in/yaml.v3"
)

// EncodeJSON returns an indented JSON string for the given value.
func EncodeJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", domain.NewOutputError("failed to marshal JSON", err)
	}
	return string(data), nil
}

// WriteJSON writes indented JSON for the given value to the writer.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

// WriteYAML writes YAML for the given value to the writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// Standard formatting constants, shared across the text renderers.
const (
	HeaderWidth = 40
	LabelWidth  = 22
)

// FormatMainHeader creates a standardized main header.
func FormatMainHeader(title string) string {
	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", HeaderWidth) + "\n\n")
	return b.String()
}

// FormatSectionHeader creates a standardized section header.
func FormatSectionHeader(title string) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(title) + "\n")
	b.WriteString(strings.Repeat("-", len(title)) + "\n")
	return b.String()
}

// FormatLabel creates a consistently formatted, right-aligned label line.
func FormatLabel(label string, value interface{}) string {
	padding := LabelWidth - len(label)
	if padding < 0 {
		padding = 0
	}
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", padding), label, value)
}

// FormatIndented creates a label line at a specific indentation depth.
func FormatIndented(indent int, label string, value interface{}) string {
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", indent), label, value)
}
