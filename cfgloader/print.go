package cfgloader

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// printConfig logs the loaded config as YAML with `mask:"true"` fields
// blanked out, so the effective configuration is visible at startup without
// leaking credentials.
func printConfig(config any) {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	out, err := yaml.Marshal(maskedCopy(val).Interface())
	if err != nil {
		slog.Error("failed to marshal config", "error", err.Error())
	}
	slog.Info(fmt.Sprintf("Loaded config:\n%s", string(out)))
}

// maskedCopy builds a deep copy of val in which every field tagged
// `mask:"true"` has been replaced by redactField.
func maskedCopy(val reflect.Value) reflect.Value {
	if !val.IsValid() {
		return val
	}

	switch val.Kind() { //nolint:exhaustive // other kinds are copied as-is
	case reflect.Ptr:
		if val.IsNil() {
			return val
		}
		out := reflect.New(val.Elem().Type())
		out.Elem().Set(maskedCopy(val.Elem()))
		return out

	case reflect.Interface:
		if val.IsNil() {
			return val
		}
		return maskedCopy(val.Elem())

	case reflect.Struct:
		out := reflect.New(val.Type()).Elem()
		for i := range val.NumField() {
			src := val.Field(i)
			dst := out.Field(i)

			if !dst.CanSet() || !src.CanInterface() {
				continue
			}

			if val.Type().Field(i).Tag.Get("mask") == "true" {
				dst.Set(redactField(src))
			} else {
				dst.Set(maskedCopy(src))
			}
		}
		return out

	default:
		return val
	}
}

// redactField masks a single tagged field. Strings keep their length so
// operators can tell an empty secret from a set one; containers are walked
// recursively; everything else is zeroed.
func redactField(val reflect.Value) reflect.Value {
	if !val.IsValid() {
		return val
	}

	switch val.Kind() { //nolint:exhaustive // other kinds are zeroed
	case reflect.String:
		return reflect.ValueOf(strings.Repeat("*", val.Len()))

	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map, reflect.Interface, reflect.Ptr:
		return maskedCopy(val)

	default:
		return reflect.Zero(val.Type())
	}
}
