package table

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind is the type of a cell value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// Value is a single typed cell. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	date time.Time
}

func Null() Value            { return Value{} }
func Text(s string) Value    { return Value{kind: KindString, str: s} }
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }
func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }
func (v Value) Str() string     { return v.str }
func (v Value) Num() float64    { return v.num }
func (v Value) Time() time.Time { return v.date }

// IsEmpty reports whether the cell is null or an empty string.
func (v Value) IsEmpty() bool {
	return v.kind == KindNull || (v.kind == KindString && v.str == "")
}

// Equal is exact typed equality: a number never equals its string spelling.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

// String is the textual form used for export, matching and display. Null is "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		if v.date.Hour() == 0 && v.date.Minute() == 0 && v.date.Second() == 0 && v.date.Nanosecond() == 0 {
			return v.date.Format("2006-01-02")
		}
		return v.date.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Any returns the Go value for writers: nil, string, float64 or time.Time.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindDate:
		return v.date
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindNull:
		return []byte("null"), nil
	default:
		return json.Marshal(v.String())
	}
}

// key is an injective encoding used for hashing values (joins, indexes).
func (v Value) key() string {
	switch v.kind {
	case KindString:
		return "s" + v.str
	case KindNumber:
		n := v.num
		if n == 0 {
			n = 0 // fold -0
		}
		return "n" + strconv.FormatFloat(n, 'g', -1, 64)
	case KindDate:
		return "d" + strconv.FormatInt(v.date.UnixNano(), 10)
	default:
		return "0"
	}
}

// Key joins the hash keys of vals; two slices have the same Key iff they are
// pairwise Equal.
func Key(vals ...Value) string {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		k := v.key()
		b.WriteString(strconv.Itoa(len(k)))
		b.WriteByte(':')
		b.WriteString(k)
	}
	return b.String()
}

var rxNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// DateLayouts are the textual date forms recognized by Infer.
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Infer types a raw cell read from a file. Empty text is null. Codes with a
// leading zero (EANs, vendor codes) and integers a float64 cannot hold exactly
// stay text so exports keep them intact.
func Infer(raw string) Value {
	if raw == "" {
		return Null()
	}
	s := strings.TrimSpace(raw)
	if rxNumber.MatchString(s) && !hasLeadingZero(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil && exactInteger(s, f) {
			return Number(f)
		}
	}
	if t, ok := ParseDate(s); ok {
		return Date(t)
	}
	return Text(raw)
}

// ParseDate tries DateLayouts in order.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// exactInteger is false when s is written as a plain integer that f does not
// reproduce digit for digit. Fractions and exponents are left to float rounding.
func exactInteger(s string, f float64) bool {
	if strings.ContainsAny(s, ".eE") {
		return true
	}
	return strconv.FormatFloat(f, 'f', -1, 64) == strings.TrimPrefix(s, "+")
}

func hasLeadingZero(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}
