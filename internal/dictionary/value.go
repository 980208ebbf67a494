package dictionary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object whose keys keep their document order.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// Decode parses JSON into a value tree made of *Object, []any, string,
// json.Number, bool and nil.
func Decode(data []byte) (any, error) {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("jsonparser.Get > %w", err)
	}
	return decodeValue(value, dataType)
}

func decodeValue(value []byte, dataType jsonparser.ValueType) (any, error) {
	switch dataType {
	case jsonparser.Object:
		obj := NewObject()
		err := jsonparser.ObjectEach(value, func(key []byte, child []byte, childType jsonparser.ValueType, _ int) error {
			decoded, err := decodeValue(child, childType)
			if err != nil {
				return fmt.Errorf("key %q > %w", string(key), err)
			}
			obj.Set(string(key), decoded)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return obj, nil
	case jsonparser.Array:
		items := make([]any, 0)
		var itemErr error
		_, err := jsonparser.ArrayEach(value, func(child []byte, childType jsonparser.ValueType, _ int, err error) {
			if itemErr != nil {
				return
			}
			if err != nil {
				itemErr = err
				return
			}
			decoded, err := decodeValue(child, childType)
			if err != nil {
				itemErr = err
				return
			}
			items = append(items, decoded)
		})
		if err != nil {
			return nil, err
		}
		if itemErr != nil {
			return nil, itemErr
		}
		return items, nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, fmt.Errorf("jsonparser.ParseString > %w", err)
		}
		return s, nil
	case jsonparser.Number:
		return json.Number(string(value)), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return nil, fmt.Errorf("jsonparser.ParseBoolean > %w", err)
		}
		return b, nil
	case jsonparser.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value: %s", string(value))
	}
}

// Encode serializes a value tree as two-space indented JSON, keeping object
// key order and leaving HTML characters unescaped.
func Encode(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, value, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, value any, depth int) error {
	switch v := value.(type) {
	case nil:
		buf.WriteString("null")
	case *Object:
		if v == nil || v.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			writeIndent(buf, depth+1)
			if err := encodeScalar(buf, pair.Key); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := encodeValue(buf, pair.Value, depth+1); err != nil {
				return fmt.Errorf("key %q > %w", pair.Key, err)
			}
			if pair.Next() != nil {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte('}')
	case []any:
		if len(v) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range v {
			writeIndent(buf, depth+1)
			if err := encodeValue(buf, item, depth+1); err != nil {
				return fmt.Errorf("index %d > %w", i, err)
			}
			if i < len(v)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte(']')
	default:
		return encodeScalar(buf, v)
	}
	return nil
}

func encodeScalar(buf *bytes.Buffer, value any) error {
	var scalar bytes.Buffer
	encoder := json.NewEncoder(&scalar)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("json.Encode(%v) > %w", value, err)
	}
	buf.Write(bytes.TrimRight(scalar.Bytes(), "\n"))
	return nil
}

func writeIndent(buf *bytes.Buffer, depth int) {
	buf.WriteString(strings.Repeat("  ", depth))
}
