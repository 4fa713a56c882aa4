package coach

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Value is a loosely typed field as it arrives from a form, a JSON body or a
// database column. The zero Value is absent.
type Value struct {
	text    string
	present bool
}

// Text returns a Value holding s. Empty and whitespace-only strings are absent.
func Text(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{}
	}
	return Value{text: s, present: true}
}

func Int(n int64) Value {
	return Value{text: strconv.FormatInt(n, 10), present: true}
}

func Float(f float64) Value {
	return Value{text: strconv.FormatFloat(f, 'f', -1, 64), present: true}
}

// IsAbsent reports whether the field carries no data.
func (v Value) IsAbsent() bool {
	return !v.present
}

// String returns the raw text, or "" when absent.
func (v Value) String() string {
	return v.text
}

// Or returns the field's text, or absent when the field carries no data.
func (v Value) Or(absent string) string {
	if !v.present {
		return absent
	}
	return v.text
}

// Normalize renders any scalar, pointer, container or database value as
// prompt text. Missing, nil and empty values render as absent. It never fails.
func Normalize(v any, absent string) string {
	return ValueOf(v).Or(absent)
}

// ValueOf converts an arbitrary Go value into a Value. Maps, slices and
// structs become their canonical JSON encoding (map keys sorted).
func ValueOf(v any) Value {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return Value{}
	}

	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case *Value:
		if x == nil {
			return Value{}
		}
		return *x
	case string:
		return Text(x)
	case []byte:
		if x == nil {
			return Value{}
		}
		return Text(string(x))
	case bool:
		return Value{text: strconv.FormatBool(x), present: true}
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Value{text: strconv.FormatUint(uint64(x), 10), present: true}
	case uint8:
		return Value{text: strconv.FormatUint(uint64(x), 10), present: true}
	case uint16:
		return Value{text: strconv.FormatUint(uint64(x), 10), present: true}
	case uint32:
		return Value{text: strconv.FormatUint(uint64(x), 10), present: true}
	case uint64:
		return Value{text: strconv.FormatUint(x, 10), present: true}
	case float32:
		return Value{text: strconv.FormatFloat(float64(x), 'f', -1, 32), present: true}
	case float64:
		return Float(x)
	case json.Number:
		return Text(x.String())
	case json.RawMessage:
		var out Value
		if err := out.UnmarshalJSON(x); err != nil {
			return Text(string(x))
		}
		return out
	case time.Time:
		if x.IsZero() {
			return Value{}
		}
		return Value{text: x.UTC().Format(time.RFC3339), present: true}
	case sql.NullString:
		if !x.Valid {
			return Value{}
		}
		return Text(x.String)
	case sql.NullInt64:
		if !x.Valid {
			return Value{}
		}
		return Int(x.Int64)
	case sql.NullInt32:
		if !x.Valid {
			return Value{}
		}
		return Int(int64(x.Int32))
	case sql.NullFloat64:
		if !x.Valid {
			return Value{}
		}
		return Float(x.Float64)
	case sql.NullBool:
		if !x.Valid {
			return Value{}
		}
		return ValueOf(x.Bool)
	case sql.NullTime:
		if !x.Valid {
			return Value{}
		}
		return ValueOf(x.Time)
	case fmt.Stringer:
		return Text(x.String())
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{}
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return Value{}
		}
	case reflect.String:
		return Text(rv.String())
	}
	return Value{text: canonical(v), present: true}
}

// canonical encodes v as compact JSON without HTML escaping. Values that
// cannot be encoded fall back to their fmt representation.
func canonical(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// UnmarshalJSON accepts any JSON value. Strings are kept verbatim, numbers
// and booleans keep their literal text, objects and arrays are re-encoded
// canonically so key order does not matter.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*v = Value{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case '{', '[':
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var decoded any
		if err := dec.Decode(&decoded); err != nil {
			return err
		}
		*v = Value{text: canonical(decoded), present: true}
	default:
		if !json.Valid(data) {
			return fmt.Errorf("coach: invalid JSON value %q", data)
		}
		*v = Value{text: string(data), present: true}
	}
	return nil
}

// MarshalJSON writes absent fields as null and present ones as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.present {
		return []byte("null"), nil
	}
	return json.Marshal(v.text)
}

// Scan implements sql.Scanner; NULL scans as absent.
func (v *Value) Scan(src any) error {
	switch x := src.(type) {
	case nil:
		*v = Value{}
	case []byte:
		*v = Text(string(x))
	case string:
		*v = Text(x)
	case int64:
		*v = Int(x)
	case float64:
		*v = Float(x)
	case bool:
		*v = ValueOf(x)
	case time.Time:
		*v = ValueOf(x)
	default:
		return fmt.Errorf("coach: cannot scan %T into Value", src)
	}
	return nil
}

// Value implements driver.Valuer; absent fields are stored as NULL.
func (v Value) Value() (driver.Value, error) {
	if !v.present {
		return nil, nil
	}
	return v.text, nil
}
