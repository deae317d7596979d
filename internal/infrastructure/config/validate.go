package config

import (
	"reflect"
	"strings"
)

// requiredTag is the struct tag value marking a field as mandatory.
const requiredTag = "required"

// missingRequired walks v (a pointer to a struct) and returns the dotted
// names of every `validate:"required"` field holding its zero value.
// Embedded structs are flattened; nested structs and non-nil pointers to
// structs are descended into with their field name as prefix.
func missingRequired(v any) []string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var missing []string
	walkRequired(rv, "", &missing)
	return missing
}

func walkRequired(rv reflect.Value, prefix string, missing *[]string) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := rv.Field(i)

		name := prefix + field.Name
		if hasRequired(field.Tag.Get("validate")) && isEmpty(fv) {
			*missing = append(*missing, name)
			continue
		}

		// Descend into nested settings blocks.
		switch {
		case fv.Kind() == reflect.Struct:
			walkRequired(fv, nestedPrefix(name, field.Anonymous, prefix), missing)
		case fv.Kind() == reflect.Pointer && !fv.IsNil() && fv.Elem().Kind() == reflect.Struct:
			walkRequired(fv.Elem(), nestedPrefix(name, field.Anonymous, prefix), missing)
		}
	}
}

func nestedPrefix(name string, anonymous bool, prefix string) string {
	if anonymous {
		return prefix
	}
	return name + "."
}

func hasRequired(tag string) bool {
	for _, part := range strings.Split(tag, ",") {
		if strings.TrimSpace(part) == requiredTag {
			return true
		}
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
