package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	goodColor   = color.New(color.FgGreen, color.Bold)
	badColor    = color.New(color.FgRed, color.Bold)
	warnColor   = color.New(color.FgYellow)
	mutedColor  = color.New(color.FgHiBlack)
)

// render writes payload as JSON or YAML, or calls human for the default
// format.
func render(w io.Writer, format string, payload interface{}, human func(io.Writer)) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	case "yaml":
		// Result types carry json tags only; going through JSON keeps the
		// field names identical across both formats.
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		data, err := yaml.Marshal(generic)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(data))
		return nil
	case "human", "":
		human(w)
		return nil
	default:
		return invalid(fmt.Errorf("unknown output format %q (choose from human, json, yaml)", format))
	}
}

func savingsColor(v float64) *color.Color {
	if v < 0 {
		return badColor
	}
	return goodColor
}

func warn(w io.Writer, format string, args ...interface{}) {
	warnColor.Fprintf(w, "warning: "+format+"\n", args...)
}

func splitCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
