package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/records"
)

// Row is one record parsed from a CSV file, prior to normalization.
type Row map[string]string

// ToInternal translates an external snake_case row into internal camelCase
// field names. Registered columns use the fixed correspondence; unknown
// columns are transliterated generically so unanticipated data is not
// silently dropped before it can be inspected.
func ToInternal(row Row, reg *records.Registry) map[string]any {
	fields := make(map[string]any, len(row))
	for col, value := range row {
		if f, ok := reg.LookupColumn(col); ok {
			fields[f.Name] = value
			continue
		}
		fields[snakeToCamel(col)] = value
	}
	return fields
}

// ToExternal renders an internal field map as external column values. Every
// registered column is present in the result; reg.Columns() gives the fixed
// output order for CSV headers.
func ToExternal(fields map[string]any, reg *records.Registry) map[string]string {
	row := make(map[string]string, len(reg.Fields()))
	for _, f := range reg.Fields() {
		v, ok := fields[f.Name]
		if !ok {
			row[f.Column] = ""
			continue
		}
		row[f.Column] = formatValue(v)
	}
	return row
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// snakeToCamel transliterates a snake_case key: split on underscores,
// capitalize the letter following each one.
func snakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	if len(parts) == 1 {
		return s
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
