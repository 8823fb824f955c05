package output

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

var (
	jsonMarshaler = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshaler = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// DeterministicEncode produces byte-identical JSON output.
func DeterministicEncode(v interface{}) ([]byte, error) {
	normalized, err := normalizeValue(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DeterministicEncodeIndented is DeterministicEncode with indentation.
func DeterministicEncodeIndented(v interface{}, indent string) ([]byte, error) {
	compact, err := DeterministicEncode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalizeValue turns v into maps, slices and scalars that encoding/json
// writes in a fixed order.
func normalizeValue(val reflect.Value) (interface{}, error) {
	if !val.IsValid() {
		return nil, nil
	}
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil, nil
		}
		if val.Type().Implements(jsonMarshaler) || val.Type().Implements(textMarshaler) {
			break
		}
		val = val.Elem()
	}

	if val.Type().Implements(jsonMarshaler) || val.Type().Implements(textMarshaler) {
		return remarshal(val)
	}
	if val.CanAddr() && reflect.PointerTo(val.Type()).Implements(jsonMarshaler) {
		return remarshal(val.Addr())
	}

	switch val.Kind() {
	case reflect.Map:
		return normalizeMap(val)
	case reflect.Slice, reflect.Array:
		if val.Kind() == reflect.Slice && val.IsNil() {
			return nil, nil
		}
		out := make([]interface{}, val.Len())
		for i := range out {
			n, err := normalizeValue(val.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case reflect.Struct:
		return normalizeStruct(val)
	case reflect.Float32, reflect.Float64:
		return RoundFloat(val.Float()), nil
	default:
		return val.Interface(), nil
	}
}

// remarshal lets a value's own marshaling decide its shape, then
// normalizes the result.
func remarshal(val reflect.Value) (interface{}, error) {
	data, err := json.Marshal(val.Interface())
	if err != nil {
		return nil, err
	}
	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	return normalizeValue(reflect.ValueOf(generic))
}

func normalizeMap(val reflect.Value) (interface{}, error) {
	if val.IsNil() {
		return nil, nil
	}
	result := make(map[string]interface{}, val.Len())
	it := val.MapRange()
	for it.Next() {
		key, err := mapKey(it.Key())
		if err != nil {
			return nil, err
		}
		v, err := normalizeValue(it.Value())
		if err != nil {
			return nil, err
		}
		if v != nil {
			result[key] = v
		}
	}
	return result, nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		return string(b), err
	}
	return fmt.Sprint(k.Interface()), nil
}

func normalizeStruct(val reflect.Value) (interface{}, error) {
	result := make(map[string]interface{})
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty := parseJSONTag(field.Tag.Get("json"))
		if name == "-" {
			continue
		}
		v, err := normalizeValue(val.Field(i))
		if err != nil {
			return nil, err
		}
		if name == "" && field.Anonymous {
			// Embedded structs are flattened as encoding/json does.
			if inner, ok := v.(map[string]interface{}); ok {
				for k, iv := range inner {
					if _, taken := result[k]; !taken {
						result[k] = iv
					}
				}
				continue
			}
		}
		if name == "" {
			name = field.Name
		}
		if v == nil || (omitEmpty && isZeroValue(v)) {
			continue
		}
		result[name] = v
	}
	return result, nil
}

func parseJSONTag(tag string) (name string, omitEmpty bool) {
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return parts[0], omitEmpty
}

func isZeroValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case json.Number:
		return val == "0"
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}
