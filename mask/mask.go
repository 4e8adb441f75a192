// Package mask redacts sensitive struct fields before they are logged.
//
// Fields tagged `mask:"true"` have their values replaced by a kind-specific
// placeholder; everything else passes through. Nested structs are flattened
// into dotted keys so log processors see a stable, ordered shape.
package mask

import (
	"fmt"
	"reflect"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const tagName = "mask"

// StructToOrdMap flattens a struct into an ordered field map with sensitive
// values masked. Field names follow json tag > yaml tag > Go field name;
// fields tagged json:"-" or yaml:"-" are omitted entirely.
func StructToOrdMap(v any) *orderedmap.OrderedMap[string, any] {
	if v == nil {
		return nil
	}
	return flatten(reflect.ValueOf(v), "")
}

func flatten(val reflect.Value, prefix string) *orderedmap.OrderedMap[string, any] {
	out := orderedmap.New[string, any]()

	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			out.Set(prefix, nil)
			return out
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		out.Set(prefix, val.Interface())
		return out
	}

	typ := val.Type()
	for i := range val.NumField() {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !fieldType.IsExported() {
			continue
		}

		name, skip := fieldName(fieldType)
		if skip {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		switch {
		case strings.EqualFold(fieldType.Tag.Get(tagName), "true"):
			out.Set(name, redact(field))
		case isNestedStruct(field):
			for pair := flatten(field, name).Oldest(); pair != nil; pair = pair.Next() {
				out.Set(pair.Key, pair.Value)
			}
		default:
			out.Set(name, field.Interface())
		}
	}

	return out
}

func isNestedStruct(val reflect.Value) bool {
	kind := val.Kind()
	if kind == reflect.Pointer {
		if val.IsNil() {
			return false
		}
		kind = val.Elem().Kind()
	}
	return kind == reflect.Struct
}

// redact replaces a value with a placeholder naming its kind.
// Nil pointers, slices and maps stay nil so absence remains visible.
func redact(val reflect.Value) any {
	switch val.Kind() { //nolint:exhaustive // remaining kinds fall through
	case reflect.Pointer:
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	case reflect.Slice, reflect.Map:
		if val.IsNil() {
			return nil
		}
	}

	return placeholder(val.Kind())
}

func placeholder(kind reflect.Kind) string {
	switch kind { //nolint:exhaustive // remaining kinds fall through
	case reflect.String:
		return "***masked-string***"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "***masked-int***"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "***masked-uint***"
	case reflect.Float32, reflect.Float64:
		return "***masked-float***"
	case reflect.Bool:
		return "***masked-bool***"
	case reflect.Struct:
		return "***masked-struct***"
	case reflect.Slice, reflect.Array:
		return "***masked-slice***"
	case reflect.Map:
		return "***masked-map***"
	default:
		return fmt.Sprintf("***masked-%s***", kind)
	}
}

// fieldName resolves the output name of a struct field.
// Returns skip=true when the field is tagged out of serialization.
func fieldName(field reflect.StructField) (name string, skip bool) {
	for _, key := range []string{"json", "yaml"} {
		tag, ok := field.Tag.Lookup(key)
		if !ok {
			continue
		}
		if tag == "-" {
			return "", true
		}
		if idx := strings.Index(tag, ","); idx != -1 {
			tag = tag[:idx]
		}
		if tag != "" {
			return tag, false
		}
	}

	return field.Name, false
}
