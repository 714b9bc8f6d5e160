package loader

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// checkKeyCase rejects object keys that name a field of t only when
// compared case-insensitively. encoding/json accepts "FIRST_NAME" for a
// field tagged "first_name"; the wire format does not.
func checkKeyCase(body []byte, t reflect.Type) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return err
	}
	return walkKeys(doc, t, "")
}

func walkKeys(v any, t reflect.Type, path string) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		fields := jsonFields(t)
		for key, val := range obj {
			if ft, ok := fields[key]; ok {
				if err := walkKeys(val, ft, path+"."+key); err != nil {
					return err
				}
				continue
			}
			for name := range fields {
				if strings.EqualFold(name, key) {
					return fmt.Errorf("key %q at %q does not match field %q", key, "$"+path, name)
				}
			}
		}
	case reflect.Slice, reflect.Array:
		arr, ok := v.([]any)
		if !ok {
			return nil
		}
		for i, el := range arr {
			if err := walkKeys(el, t.Elem(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		for key, val := range obj {
			if err := walkKeys(val, t.Elem(), path+"."+key); err != nil {
				return err
			}
		}
	}
	return nil
}

// jsonFields maps each JSON key t decodes to the type of its field,
// flattening untagged embedded structs.
func jsonFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				for k, v := range jsonFields(ft) {
					if _, dup := fields[k]; !dup {
						fields[k] = v
					}
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = f.Type
	}
	return fields
}
