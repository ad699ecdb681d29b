package corpus

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DataType is the declared type of a statement variable.
type DataType string

const (
	// ShortText is a single-line text value.
	ShortText DataType = "short text"
	// LongText is a free text value that may span lines.
	LongText DataType = "long text"
	// Boolean is stored as the integer 0 or 1.
	Boolean DataType = "boolean"
	// Integer is a whole number.
	Integer DataType = "integer"
)

// ParseDataType converts s to a DataType.
func ParseDataType(s string) (DataType, error) {
	switch dt := DataType(s); dt {
	case ShortText, LongText, Boolean, Integer:
		return dt, nil
	default:
		return "", fmt.Errorf("unknown data type %q (valid: short text, long text, boolean, integer)", s)
	}
}

// IsText reports whether values of this type are stored as text.
func (d DataType) IsText() bool {
	return d == ShortText || d == LongText
}

// IsNumeric reports whether values of this type are stored as integers.
func (d DataType) IsNumeric() bool {
	return d == Boolean || d == Integer
}

// Value is a coded variable value: either text or an integer.
// The zero value is the empty text.
type Value struct {
	text  string
	num   int
	isInt bool
}

// TextValue returns a text value.
func TextValue(s string) Value {
	return Value{text: s}
}

// IntValue returns an integer value.
func IntValue(n int) Value {
	return Value{num: n, isInt: true}
}

// BoolValue returns the integer value 1 for true and 0 for false.
func BoolValue(b bool) Value {
	if b {
		return IntValue(1)
	}
	return IntValue(0)
}

// IsText reports whether v holds text.
func (v Value) IsText() bool { return !v.isInt }

// Int returns the integer held by v. ok is false for text values.
func (v Value) Int() (n int, ok bool) {
	return v.num, v.isInt
}

// IsEmpty reports whether v is the empty text. Integer values are never empty.
func (v Value) IsEmpty() bool {
	return !v.isInt && v.text == ""
}

// String returns the canonical string form: the text itself, or the integer
// in base 10.
func (v Value) String() string {
	if v.isInt {
		return strconv.Itoa(v.num)
	}
	return v.text
}

// Matches reports whether v is valid for a variable of type dt.
func (v Value) Matches(dt DataType) bool {
	switch dt {
	case ShortText, LongText:
		return v.IsText()
	case Integer:
		return v.isInt
	case Boolean:
		return v.isInt && (v.num == 0 || v.num == 1)
	default:
		return false
	}
}

// UnmarshalYAML decodes integer and boolean scalars into integer values and
// every other scalar into text.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: value must be a scalar", node.Line)
	}

	switch node.ShortTag() {
	case "!!int":
		var n int
		if err := node.Decode(&n); err != nil {
			return err
		}
		*v = IntValue(n)
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case "!!null":
		*v = TextValue("")
	default:
		*v = TextValue(node.Value)
	}
	return nil
}

// MarshalYAML encodes integers as YAML integers and text as strings.
func (v Value) MarshalYAML() (interface{}, error) {
	if v.isInt {
		return v.num, nil
	}
	return v.text, nil
}

// MarshalJSON encodes integers as JSON numbers and text as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isInt {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.text)
}
