package ui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// formatLogLines turns raw log file lines into display lines. JSON entries
// written by zerolog may expand to several lines; anything else passes
// through unchanged.
func formatLogLines(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, splitLines(formatLogLine(line))...)
	}
	return lines
}

// formatLogLine formats one log entry as
// "2006-01-02 15:04:05 LEVEL [component] – message" followed by one
// "    - key: value" line per remaining field, sorted by key.
func formatLogLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return line
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return line
	}

	ts := stringField(fields, zerolog.TimestampFieldName)
	if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		ts = parsed.In(time.Local).Format("2006-01-02 15:04:05")
	}
	level := strings.ToUpper(stringField(fields, zerolog.LevelFieldName))
	if level == "" {
		level = "INFO"
	}

	parts := []string{level}
	if ts != "" {
		parts = append([]string{ts}, parts...)
	}
	if component := stringField(fields, "component"); component != "" {
		parts = append(parts, fmt.Sprintf("[%s]", component))
	}
	header := strings.Join(parts, " ")
	if message := stringField(fields, zerolog.MessageFieldName); message != "" {
		header += " – " + message
	}

	delete(fields, zerolog.TimestampFieldName)
	delete(fields, zerolog.LevelFieldName)
	delete(fields, zerolog.MessageFieldName)
	delete(fields, "component")
	if len(fields) == 0 {
		return header
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(header)
	for _, k := range keys {
		value := detailValue(fields[k])
		if value == "" {
			continue
		}
		b.WriteString("\n    - ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(value)
	}
	return b.String()
}

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return strings.TrimSpace(s)
}

func detailValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
