// Package flagx declares cobra flags from struct tags and maps them to configuration keys.
//
//	type ServeOptions struct {
//	    ConfigDir string `flag:"config-dir,c" usage:"configuration directory" default:"./configs"`
//	    Level     string `flag:"http-logging-level" usage:"INFO, DEBUG, WARN or ERROR" config:"http.logging.level"`
//	}
//
//	var opts ServeOptions
//	_ = flagx.BindFlags(cmd, &opts)      // before Execute
//	_ = flagx.ParseFlags(cmd, &opts)     // inside RunE
//	bindings := flagx.ConfigBindings(&opts) // for config.FlagSource
package flagx

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// taggedField one struct field carrying a flag tag
type taggedField struct {
	value  reflect.Value
	field  reflect.StructField
	name   string
	short  string
	config []string
}

func taggedFields(target interface{}) ([]taggedField, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("target must be a pointer to struct")
	}
	v = v.Elem()
	t := v.Type()

	var fields []taggedField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("flag")
		if tag == "" || !sf.IsExported() {
			continue
		}

		name, short, _ := strings.Cut(tag, ",")
		tf := taggedField{value: v.Field(i), field: sf, name: name, short: short}
		if keys := sf.Tag.Get("config"); keys != "" {
			tf.config = strings.Split(keys, ",")
		}
		fields = append(fields, tf)
	}
	return fields, nil
}

// BindFlags registers a flag for every tagged field.
// Tags: flag (name[,short]), usage, default, required.
func BindFlags(cmd *cobra.Command, target interface{}) error {
	fields, err := taggedFields(target)
	if err != nil {
		return err
	}

	for _, f := range fields {
		if err := registerFlag(cmd, f); err != nil {
			return err
		}
		if f.field.Tag.Get("required") == "true" {
			if err := cmd.MarkFlagRequired(f.name); err != nil {
				return err
			}
		}
	}
	return nil
}

func registerFlag(cmd *cobra.Command, f taggedField) error {
	usage := f.field.Tag.Get("usage")
	def := f.field.Tag.Get("default")
	flags := cmd.Flags()

	switch f.field.Type.Kind() {
	case reflect.String:
		flags.StringP(f.name, f.short, def, usage)

	case reflect.Int:
		n := 0
		if def != "" {
			var err error
			if n, err = strconv.Atoi(def); err != nil {
				return fmt.Errorf("default of %s: %w", f.name, err)
			}
		}
		flags.IntP(f.name, f.short, n, usage)

	case reflect.Bool:
		b := false
		if def != "" {
			var err error
			if b, err = strconv.ParseBool(def); err != nil {
				return fmt.Errorf("default of %s: %w", f.name, err)
			}
		}
		flags.BoolP(f.name, f.short, b, usage)

	case reflect.Slice:
		if f.field.Type.Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", f.field.Type.Elem().Kind())
		}
		var values []string
		if def != "" {
			values = strings.Split(def, ",")
		}
		flags.StringSliceP(f.name, f.short, values, usage)

	default:
		return fmt.Errorf("unsupported field type: %s", f.field.Type.Kind())
	}
	return nil
}

// ParseFlags copies the parsed flag values into the tagged fields
func ParseFlags(cmd *cobra.Command, target interface{}) error {
	fields, err := taggedFields(target)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	for _, f := range fields {
		switch f.field.Type.Kind() {
		case reflect.String:
			val, err := flags.GetString(f.name)
			if err != nil {
				return fmt.Errorf("parse field %s: %w", f.field.Name, err)
			}
			f.value.SetString(val)

		case reflect.Int:
			val, err := flags.GetInt(f.name)
			if err != nil {
				return fmt.Errorf("parse field %s: %w", f.field.Name, err)
			}
			f.value.SetInt(int64(val))

		case reflect.Bool:
			val, err := flags.GetBool(f.name)
			if err != nil {
				return fmt.Errorf("parse field %s: %w", f.field.Name, err)
			}
			f.value.SetBool(val)

		case reflect.Slice:
			val, err := flags.GetStringSlice(f.name)
			if err != nil {
				return fmt.Errorf("parse field %s: %w", f.field.Name, err)
			}
			f.value.Set(reflect.ValueOf(val))

		default:
			return fmt.Errorf("unsupported field type: %s", f.field.Type.Kind())
		}
	}
	return nil
}

// ConfigBindings maps flag names to the configuration keys in their config tag.
// Fields without a config tag are not part of the configuration.
func ConfigBindings(target interface{}) map[string][]string {
	fields, err := taggedFields(target)
	if err != nil {
		return nil
	}

	bindings := make(map[string][]string)
	for _, f := range fields {
		if len(f.config) > 0 {
			bindings[f.name] = f.config
		}
	}
	return bindings
}
