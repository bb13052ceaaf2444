package balance

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Float is a lenient numeric input field. It accepts JSON numbers and numeric
// strings ("12,5", "60.39%") and remembers whether a value was supplied and
// whether it parsed.
type Float struct {
	Value     float64
	Present   bool
	Malformed bool
	raw       string
}

// Num builds a present, well-formed field.
func Num(v float64) Float {
	return Float{Value: v, Present: true}
}

func (f *Float) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*f = Float{}
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*f = Float{}
			return nil
		}
	}
	v, ok := ParseNumber(s)
	*f = Float{Value: v, Present: true, Malformed: !ok, raw: s}
	return nil
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f Float) Valid() bool {
	return f.Present && !f.Malformed
}

// Or returns the parsed value, or def when the field is missing or malformed.
func (f Float) Or(def float64) float64 {
	if !f.Valid() {
		return def
	}
	return f.Value
}

// Require returns the parsed value or a *FieldError naming the field.
func (f Float) Require(name string) (float64, error) {
	switch {
	case !f.Present:
		return 0, &FieldError{Field: name, Reason: "missing"}
	case f.Malformed:
		return 0, &FieldError{Field: name, Reason: fmt.Sprintf("malformed number %q", f.raw)}
	}
	return f.Value, nil
}

// Optional returns def when the field is missing and a *FieldError when it is
// present but does not parse.
func (f Float) Optional(name string, def float64) (float64, error) {
	if !f.Present {
		return def, nil
	}
	return f.Require(name)
}

// ParseNumber parses a decimal number written with either '.' or ',' as the
// separator, ignoring a trailing percent sign.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
