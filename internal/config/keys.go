// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a value by dot-notation key, e.g. "tracker.tick_ms" or
// "rates.headcount.SR".
func (c *Config) Get(key string) (interface{}, error) {
	if key == "" {
		return nil, errEmptyKey
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		if v.Kind() == reflect.Map {
			if i != len(parts)-1 {
				return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i], "."))
			}
			mv := v.MapIndex(reflect.ValueOf(part))
			if !mv.IsValid() {
				return nil, fmt.Errorf("unknown key: %s", key)
			}
			return mv.Interface(), nil
		}

		field, ok := lookupField(v, part)
		if !ok {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field.Interface(), nil
		}
		if field.Kind() != reflect.Struct && field.Kind() != reflect.Map {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set assigns a value by dot-notation key. String values are converted to
// the field's type. Setting "rates.headcount.ROLE" adds or replaces one
// entry.
func (c *Config) Set(key string, value interface{}) error {
	if key == "" {
		return errEmptyKey
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := lookupField(v, part)
		if !ok {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		if field.Kind() == reflect.Map && i == len(parts)-2 {
			return setMapValue(field, parts[i+1], value)
		}
		if field.Kind() != reflect.Struct {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return fmt.Errorf("invalid key: %s", key)
}

// lookupField finds a struct field by toml tag or by its Go name with
// snake_case normalized.
func lookupField(v reflect.Value, part string) (reflect.Value, bool) {
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	t := v.Type()
	name := normalizeFieldName(part)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if tomlName(f) == strings.ToLower(part) || strings.EqualFold(f.Name, name) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tomlName(f reflect.StructField) string {
	tag := f.Tag.Get("toml")
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(isEnabled(strVal))
			return nil
		case reflect.Map:
			if field.Type() == reflect.TypeOf(map[string]int{}) {
				hc, err := ParseHeadcount(strVal)
				if err != nil {
					return err
				}
				field.Set(reflect.ValueOf(hc))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

func setMapValue(m reflect.Value, key string, value interface{}) error {
	elem := reflect.New(m.Type().Elem()).Elem()
	if err := setFieldValue(elem, value); err != nil {
		return err
	}
	if m.IsNil() {
		m.Set(reflect.MakeMap(m.Type()))
	}
	m.SetMapIndex(reflect.ValueOf(key), elem)
	return nil
}

// GetAllKeys returns every settable key in dot notation, sorted.
func GetAllKeys() []string {
	var keys []string
	collectKeys(reflect.TypeOf(Config{}), "", &keys)
	sort.Strings(keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := prefix + tomlName(f)
		if f.Type.Kind() == reflect.Struct {
			collectKeys(f.Type, name+".", keys)
			continue
		}
		*keys = append(*keys, name)
	}
}
