// Package sqlvalue turns Go values into MySQL literal text and decides
// whether a condition value is a LIKE pattern.
package sqlvalue

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is the layout of date and time literals
const DateTimeLayout = "2006-01-02 15:04:05"

// Escaper applies the driver's byte-level escaping to a string value.
type Escaper func(string) string

// Identifier is implemented by stored objects; they are written as their id.
type Identifier interface {
	ID() int64
}

// Codec writes SQL literals using an Escaper for string contents.
type Codec struct {
	escape Escaper
}

// NewCodec creates a codec. A nil escaper means MySQLEscape.
func NewCodec(escape Escaper) *Codec {
	if escape == nil {
		escape = MySQLEscape
	}
	return &Codec{escape: escape}
}

var defaultCodec = NewCodec(MySQLEscape)

// Escape renders v with the MySQL escaper. See Codec.Escape.
func Escape(v any, doubleBackquote bool) string {
	return defaultCodec.Escape(v, doubleBackquote)
}

// Escape renders v as an SQL literal:
//   - nil is NULL, booleans are 1 and 0, Go numbers are written bare
//   - numeric strings not starting with '0' are written bare, so "0123"
//     stays the quoted string "0123"
//   - times are quoted DateTimeLayout strings
//   - slices and arrays are one quoted comma-separated string of their
//     non-nil elements, with double quotes doubled and then escaped
//   - other strings are escaped by the codec's Escaper and double-quoted
//
// When doubleBackquote is set, backslashes of the result are doubled once
// more for embedding into another backslash-sensitive string.
func (c *Codec) Escape(v any, doubleBackquote bool) string {
	s := c.literal(v)
	if doubleBackquote {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return s
}

func (c *Codec) literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "1"
		}
		return "0"
	case string:
		return c.text(v)
	case []byte:
		return c.text(string(v))
	case time.Time:
		return `"` + v.Format(DateTimeLayout) + `"`
	case Identifier:
		return strconv.FormatInt(v.ID(), 10)
	case fmt.Stringer:
		return c.text(v.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "NULL"
		}
		return c.literal(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "NULL"
		}
		return strconv.FormatFloat(f, 'f', -1, rv.Type().Bits())
	case reflect.String:
		return c.text(rv.String())
	case reflect.Bool:
		return c.literal(rv.Bool())
	case reflect.Slice, reflect.Array:
		return c.sequence(rv)
	default:
		return c.text(fmt.Sprint(v))
	}
}

func (c *Codec) text(s string) string {
	if isNumeric(s) && s[0] != '0' {
		return s
	}
	return `"` + c.escape(s) + `"`
}

// sequence writes the non-nil elements of a slice or array as one
// comma-separated quoted string, as stored in SET columns. Quotes of an
// element are doubled first, then the element goes through the escaper
// like any other string content.
func (c *Codec) sequence(rv reflect.Value) string {
	parts := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		e := rv.Index(i)
		if (e.Kind() == reflect.Interface || e.Kind() == reflect.Pointer) && e.IsNil() {
			continue
		}
		parts = append(parts, c.escape(strings.ReplaceAll(element(e.Interface()), `"`, `""`)))
	}
	return `"` + strings.Join(parts, ",") + `"`
}

func element(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		return v.Format(DateTimeLayout)
	case Identifier:
		return strconv.FormatInt(v.ID(), 10)
	case fmt.Stringer:
		return v.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return element(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func isNumeric(s string) bool {
	body := s
	if body != "" && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}
	if body == "" || !(body[0] >= '0' && body[0] <= '9' || body[0] == '.') {
		return false
	}
	if strings.ContainsAny(body, "xXpP_") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	var ne *strconv.NumError
	return err == nil || errors.As(err, &ne) && ne.Err == strconv.ErrRange
}

// MySQLEscape escapes the characters mysql_real_escape_string escapes.
func MySQLEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case 0x1a:
			b.WriteString(`\Z`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
