package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the type of a [Value].
type Kind uint8

const (
	// KindMissing is the zero Kind, used when a record has no entry for a dimension.
	KindMissing Kind = iota
	KindString
	KindNumber
)

// MissingLabel is the display form of a missing value.
const MissingLabel = "(missing)"

// Value is an atomic categorical value: a string, a number, or missing.
//
// Value is comparable, and == is strict: String("1") and Number(1) are
// different values. This makes Value usable directly as a grouping key.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value. NaN never equals itself and cannot group,
// so it becomes the missing value.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	return Value{kind: KindNumber, num: f}
}

// Missing returns the missing value. It equals the zero Value.
func Missing() Value { return Value{} }

// Kind reports the value's type.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing value.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// Float returns the numeric content of v and whether v is a number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Str returns the string content of v and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// String formats v for display. Integral numbers print without a fraction.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return MissingLabel
	}
}

// MarshalJSON encodes strings as JSON strings, numbers as JSON numbers and
// the missing value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("dataset: non-finite number %v", v.num)
		}
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON scalar. Booleans become the strings "true"
// and "false"; objects and arrays are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("dataset: empty value")
	}
	switch data[0] {
	case 'n':
		*v = Missing()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = String(strconv.FormatBool(b))
		return nil
	case '{', '[':
		return fmt.Errorf("dataset: nested value %s is not categorical", truncate(data, 24))
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("dataset: invalid number %s: %w", truncate(data, 24), err)
		}
		*v = Number(f)
		return nil
	}
}

// ParseValue converts a raw text cell. With inferNumbers, finite numeric
// text becomes a number; everything else stays a string.
func ParseValue(s string, inferNumbers bool) Value {
	if inferNumbers && s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return Number(f)
		}
	}
	return String(s)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
