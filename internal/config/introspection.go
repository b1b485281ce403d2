package config

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// GetKnownKeys returns all valid configuration keys based on the schema
func GetKnownKeys() map[string]bool {
	known := make(map[string]bool)
	addKnownKeys("", reflect.TypeOf(ConfigSchema{}), known)
	return known
}

func addKnownKeys(prefix string, t reflect.Type, known map[string]bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		// viper lowercases all keys
		key := strings.ToLower(tag)
		if prefix != "" {
			key = prefix + "." + key
		}
		known[key] = true

		switch field.Type.Kind() {
		case reflect.Struct:
			if field.Type != reflect.TypeOf(time.Duration(0)) {
				addKnownKeys(key, field.Type, known)
			}
		case reflect.Map:
			known[key+".*"] = true
		}
	}
}

// matchesWildcard checks if a key matches a wildcard pattern
func matchesWildcard(pattern, key string) bool {
	patternParts := strings.Split(strings.ToLower(pattern), ".")
	keyParts := strings.Split(strings.ToLower(key), ".")

	if len(patternParts) != len(keyParts) {
		return false
	}
	for i := range patternParts {
		if patternParts[i] != "*" && patternParts[i] != keyParts[i] {
			return false
		}
	}
	return true
}

// IsKnownKey checks if a key is known, including wildcard matches
func IsKnownKey(known map[string]bool, key string) bool {
	if known[strings.ToLower(key)] {
		return true
	}
	for pattern := range known {
		if strings.Contains(pattern, "*") && matchesWildcard(pattern, key) {
			return true
		}
	}
	return false
}

// UnknownKeys returns the keys set in config files that the schema does not define.
func (s *ConfigSchema) UnknownKeys() []string {
	known := GetKnownKeys()
	var unknown []string
	for key, list := range s.sources {
		if IsKnownKey(known, key) {
			continue
		}
		for _, src := range list {
			if !strings.HasSuffix(src.source, "flag") && !strings.HasSuffix(src.source, "variable") {
				unknown = append(unknown, key)
				break
			}
		}
	}
	return unknown
}

// WriteYAML writes the configuration under prefix as YAML with secrets redacted.
func (s *ConfigSchema) WriteYAML(w io.Writer, prefix string) error {
	out := redact(toPlain(reflect.ValueOf(*s)))
	if prefix != "" {
		for _, part := range strings.Split(prefix, ".") {
			m, ok := out.(map[string]interface{})
			if !ok {
				return fmt.Errorf("no configuration under %q", prefix)
			}
			out, ok = lookupFold(m, part)
			if !ok {
				return fmt.Errorf("no configuration under %q", prefix)
			}
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("error converting to YAML: %w", err)
	}
	return enc.Close()
}

// toPlain converts v into maps, slices and scalars keyed by mapstructure
// names. Durations become their string form.
func toPlain(v reflect.Value) interface{} {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if d, ok := v.Interface().(time.Duration); ok {
		return d.String()
	}

	switch v.Kind() {
	case reflect.Struct:
		out := make(map[string]interface{})
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			tag := field.Tag.Get("mapstructure")
			if !field.IsExported() || tag == "" {
				continue
			}
			if val := toPlain(v.Field(i)); val != nil {
				out[tag] = val
			}
		}
		return out
	case reflect.Slice:
		out := make([]interface{}, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, toPlain(v.Index(i)))
		}
		return out
	case reflect.Map:
		out := make(map[string]interface{})
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = toPlain(iter.Value())
		}
		return out
	default:
		return v.Interface()
	}
}

func lookupFold(m map[string]interface{}, key string) (interface{}, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func redact(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, inner := range val {
			if _, isMap := inner.(map[string]interface{}); !isMap && isSecretKey(k) {
				if s, ok := inner.(string); ok && s == "" {
					continue
				}
				val[k] = "[REDACTED]"
				continue
			}
			val[k] = redact(inner)
		}
	case []interface{}:
		for i := range val {
			val[i] = redact(val[i])
		}
	}
	return v
}

// PrintConfig prints the configuration under prefix with the source of each value
func (s *ConfigSchema) PrintConfig(w io.Writer, prefix string) {
	s.printValue(w, reflect.ValueOf(*s), "", "", strings.ToLower(prefix), 0)
}

func inScope(path, prefix string) bool {
	if prefix == "" || path == "" {
		return true
	}
	return path == prefix ||
		strings.HasPrefix(path, prefix+".") ||
		strings.HasPrefix(prefix, path+".")
}

func (s *ConfigSchema) printValue(w io.Writer, v reflect.Value, key, path, prefix string, indent int) {
	if !inScope(path, prefix) {
		return
	}
	pad := strings.Repeat("  ", indent)

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	switch {
	case v.Kind() == reflect.Struct:
		if key != "" {
			fmt.Fprintf(w, "%s%s:\n", pad, key)
			indent++
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			tag := field.Tag.Get("mapstructure")
			if !field.IsExported() || tag == "" {
				continue
			}
			fieldPath := strings.ToLower(tag)
			if path != "" {
				fieldPath = path + "." + fieldPath
			}
			s.printValue(w, v.Field(i), tag, fieldPath, prefix, indent)
		}

	case v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Struct:
		fmt.Fprintf(w, "%s%s:", pad, key)
		s.printSourceInfo(w, path)
		fmt.Fprintln(w)
		for i := 0; i < v.Len(); i++ {
			item := v.Index(i)
			t := item.Type()
			first := true
			for j := 0; j < t.NumField(); j++ {
				tag := t.Field(j).Tag.Get("mapstructure")
				if tag == "" {
					continue
				}
				lead := pad + "    "
				if first {
					lead = pad + "  - "
					first = false
				}
				fmt.Fprintf(w, "%s%s: %v\n", lead, tag, item.Field(j).Interface())
			}
		}

	default:
		if isSecretKey(key) && !v.IsZero() {
			fmt.Fprintf(w, "%s%s: [REDACTED]", pad, key)
		} else {
			fmt.Fprintf(w, "%s%s: %v", pad, key, v.Interface())
		}
		s.printSourceInfo(w, path)
		fmt.Fprintln(w)
	}
}

func (s *ConfigSchema) printSourceInfo(w io.Writer, path string) {
	if list, ok := s.sources[path]; ok && len(list) > 0 {
		fmt.Fprintf(w, " # (%s)", list[len(list)-1].source)
		return
	}
	fmt.Fprint(w, " # (default)")
}

func isSecretKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.HasSuffix(lower, "key") ||
		strings.Contains(lower, "secret") ||
		strings.Contains(lower, "password")
}
