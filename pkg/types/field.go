package types

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldType is the storage type of a declared field.
type FieldType int

// Field types.
const (
	FieldText FieldType = iota
	FieldInteger
	FieldReal
	FieldBool
)

func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldInteger:
		return "integer"
	case FieldReal:
		return "real"
	case FieldBool:
		return "bool"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// SQLType returns the column type used in generated DDL. Booleans are
// stored as 0/1 integers.
func (t FieldType) SQLType() string {
	switch t {
	case FieldInteger, FieldBool:
		return "INTEGER"
	case FieldReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// SQLDefault returns the column default literal.
func (t FieldType) SQLDefault() string {
	switch t {
	case FieldInteger, FieldBool:
		return "0"
	case FieldReal:
		return "0.0"
	default:
		return "''"
	}
}

// Zero returns the Go value a field of this type holds before it is set.
func (t FieldType) Zero() any {
	switch t {
	case FieldInteger:
		return int64(0)
	case FieldReal:
		return float64(0)
	case FieldBool:
		return false
	default:
		return ""
	}
}

// Field is one declared column of an entity kind.
type Field struct {
	Name string
	Type FieldType

	// Ref names the kind whose logical key this field holds. Only key fields
	// use it; the reference is checked on creation, not enforced by SQLite.
	Ref Kind
}

// Text, Integer, Real and Bool build fields of the matching type.
func Text(name string) Field    { return Field{Name: name, Type: FieldText} }
func Integer(name string) Field { return Field{Name: name, Type: FieldInteger} }
func Real(name string) Field    { return Field{Name: name, Type: FieldReal} }
func Bool(name string) Field    { return Field{Name: name, Type: FieldBool} }

// Parse converts user input into the field's Go value.
func (f Field) Parse(raw string) (any, error) {
	switch f.Type {
	case FieldInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidValue, f.Name, raw)
		}
		return n, nil
	case FieldReal:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidValue, f.Name, raw)
		}
		return n, nil
	case FieldBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false, got %q", ErrInvalidValue, f.Name, raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}

// Normalize converts a value read from the database into the field's Go
// value. NULL becomes the zero value.
func (f Field) Normalize(v any) (any, error) {
	if v == nil {
		return f.Type.Zero(), nil
	}
	switch f.Type {
	case FieldText:
		switch x := v.(type) {
		case string:
			return x, nil
		case []byte:
			return string(x), nil
		}
	case FieldInteger:
		if n, ok := v.(int64); ok {
			return n, nil
		}
	case FieldReal:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int64:
			return float64(x), nil
		}
	case FieldBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case int64:
			return x != 0, nil
		}
	}
	return nil, fmt.Errorf("unexpected %T for %s field", v, f.Type)
}

// Format renders a field value for keys and messages.
func (f Field) Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
