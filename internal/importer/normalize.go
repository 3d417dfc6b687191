package importer

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// requiredOnCreate are the fields whose empty string survives CleanFields
// so that later required-field validation can detect it.
var requiredOnCreate = map[string]bool{
	"name":         true,
	"registeredAt": true,
	"gender":       true,
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05 MST",
	"2006-01-02T15:04:05.000 MST",
	"2006-01-02",
}

// NormalizeDate parses a raw date value in either supported shape and
// returns the instant in UTC. Both shapes put the date/time separator at
// index 10; a space there is swapped for 'T' so one layout set covers the
// "YYYY-MM-DD HH:MM:SS tz" export shape alongside ISO-8601. Timezone
// abbreviations further right ("UTC", "EST") must not be mistaken for the
// separator.
func NormalizeDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	if len(v) > 10 && v[10] == ' ' {
		v = v[:10] + "T" + v[11:]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NormalizeBoolean accepts "true" or "1" (case-insensitive) as true;
// everything else, including absence, is false.
func NormalizeBoolean(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "true" || v == "1"
}

// NormalizeNumber parses a numeric-looking string; anything else reports
// not-ok and should be stored as null.
func NormalizeNumber(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// TitleizeName lowercases the whole name, then capitalizes the first
// letter of every space-separated token. Applied only to the name field in
// the import path.
func TitleizeName(value string) string {
	if value == "" {
		return ""
	}
	tokens := strings.Split(strings.ToLower(value), " ")
	for i, tok := range tokens {
		if tok == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(tok)
		tokens[i] = string(unicode.ToUpper(r)) + tok[size:]
	}
	return strings.Join(tokens, " ")
}

// CleanFields rewrites empty strings to nil so they persist as NULL,
// except for the fields conventionally required on create, whose empty
// string is preserved for required-field validation to catch.
func CleanFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok && s == "" && !requiredOnCreate[k] {
			out[k] = nil
			continue
		}
		out[k] = v
	}
	return out
}
