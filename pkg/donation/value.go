package donation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only accepted expiry date format.
const DateLayout = "2006-01-02"

var (
	// ErrDateParse is wrapped by every date conversion failure.
	ErrDateParse = errors.New("date parse failure")
	// ErrQuantityParse is wrapped by every integer conversion failure.
	ErrQuantityParse = errors.New("quantity parse failure")
)

// ParseError describes a failed conversion of a loosely typed field.
type ParseError struct {
	Raw string
	Err error // ErrDateParse or ErrQuantityParse
}

func (e *ParseError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("%v: value missing", e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Raw)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Value is a loosely typed JSON field. It keeps the raw token so that a
// field can be passed through untouched, and it remembers whether the key
// was present at all: a zero Value means the key was absent, while a
// present JSON null is kept as "null".
type Value struct {
	raw json.RawMessage
}

// String returns a Value holding a JSON string.
func String(s string) Value {
	b, _ := json.Marshal(s)
	return Value{raw: b}
}

// Int returns a Value holding a JSON integer.
func Int(n int) Value {
	return Value{raw: json.RawMessage(strconv.Itoa(n))}
}

// Null returns a Value holding a present JSON null.
func Null() Value {
	return Value{raw: json.RawMessage("null")}
}

// Raw returns a Value holding the given JSON token verbatim.
// It panics if raw is not valid JSON.
func Raw(raw string) Value {
	if !json.Valid([]byte(raw)) {
		panic("donation: invalid raw JSON " + strconv.Quote(raw))
	}
	return Value{raw: json.RawMessage(raw)}
}

// UnmarshalJSON stores the raw token. It is also invoked for a present null.
func (v *Value) UnmarshalJSON(b []byte) error {
	v.raw = append(json.RawMessage(nil), bytes.TrimSpace(b)...)
	return nil
}

// MarshalJSON writes the raw token back, or null when the key was absent.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw == nil {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// IsSet reports whether the key was present in the input.
func (v Value) IsSet() bool { return v.raw != nil }

// IsNull reports whether the key was absent or explicitly null.
func (v Value) IsNull() bool { return v.raw == nil || string(v.raw) == "null" }

// Or returns def when the key was absent. A present null is kept.
func (v Value) Or(def Value) Value {
	if !v.IsSet() {
		return def
	}
	return v
}

// Truthy follows the loose truthiness the upstream payloads were written
// against: absent, null, false, numeric zero, "", [] and {} are falsy.
func (v Value) Truthy() bool {
	if v.IsNull() {
		return false
	}
	switch v.raw[0] {
	case 't':
		return true
	case 'f':
		return false
	case '"':
		var s string
		if err := json.Unmarshal(v.raw, &s); err != nil {
			return false
		}
		return s != ""
	case '[':
		var a []json.RawMessage
		if err := json.Unmarshal(v.raw, &a); err != nil {
			return false
		}
		return len(a) > 0
	case '{':
		var m map[string]json.RawMessage
		if err := json.Unmarshal(v.raw, &m); err != nil {
			return false
		}
		return len(m) > 0
	default:
		f, err := strconv.ParseFloat(string(v.raw), 64)
		if err != nil {
			return true
		}
		return f != 0
	}
}

// Text returns the string content of a JSON string, "" for an absent or
// null field, and the literal JSON text for any other token.
func (v Value) Text() string {
	if v.IsNull() {
		return ""
	}
	if v.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(v.raw, &s); err == nil {
			return s
		}
	}
	return string(v.raw)
}

// Normalized returns Text trimmed and lowercased.
func (v Value) Normalized() string {
	return strings.ToLower(strings.TrimSpace(v.Text()))
}

// Int converts the field to an integer. Accepted inputs are JSON numbers
// (non-integral numbers are truncated toward zero), booleans (1/0) and
// strings holding an optionally signed base-10 integer surrounded by
// optional whitespace. Out-of-range values saturate.
func (v Value) Int() (int, error) {
	fail := &ParseError{Raw: v.rawText(), Err: ErrQuantityParse}
	if v.IsNull() {
		return 0, fail
	}

	switch c := v.raw[0]; {
	case c == 't':
		return 1, nil
	case c == 'f':
		return 0, nil
	case c == '"':
		var s string
		if err := json.Unmarshal(v.raw, &s); err != nil {
			return 0, fail
		}
		n, ok := parseIntString(strings.TrimSpace(s))
		if !ok {
			return 0, fail
		}
		return n, nil
	case c == '-' || (c >= '0' && c <= '9'):
		return parseNumber(string(v.raw))
	default:
		return 0, fail
	}
}

// Date converts the field to a calendar date at UTC midnight. Only JSON
// strings in strict YYYY-MM-DD form naming a real date are accepted.
func (v Value) Date() (time.Time, error) {
	fail := &ParseError{Raw: v.rawText(), Err: ErrDateParse}
	if v.IsNull() || v.raw[0] != '"' {
		return time.Time{}, fail
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return time.Time{}, fail
	}
	if len(s) != len(DateLayout) {
		return time.Time{}, fail
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fail
	}
	return t, nil
}

func (v Value) rawText() string {
	if v.raw == nil {
		return ""
	}
	return string(v.raw)
}

func parseIntString(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	digits := strings.TrimLeft(s, "+-")
	if len(s)-len(digits) > 1 || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 0)
	if err != nil {
		// Only range errors are possible here.
		return saturate(s[0] == '-'), true
	}
	return int(n), true
}

func parseNumber(lit string) (int, error) {
	if !strings.ContainsAny(lit, ".eE") {
		n, err := strconv.ParseInt(lit, 10, 0)
		if err == nil {
			return int(n), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return saturate(lit[0] == '-'), nil
		}
		return 0, &ParseError{Raw: lit, Err: ErrQuantityParse}
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, &ParseError{Raw: lit, Err: ErrQuantityParse}
	}
	f = math.Trunc(f)
	switch {
	case f >= math.MaxInt:
		return math.MaxInt, nil
	case f <= math.MinInt:
		return math.MinInt, nil
	}
	return int(f), nil
}

func saturate(negative bool) int {
	if negative {
		return math.MinInt
	}
	return math.MaxInt
}
