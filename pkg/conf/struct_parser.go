package conf

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/camelcase"
	"github.com/pkg/errors"
)

const (
	// Tag with the help description of the field. Fields without it are skipped.
	helpTag = "help"
	// Tag with the default value for the field. [Optional]
	defaultTag = "default"
	// Tag naming another struct field which holds the default value. [Optional]
	defaultFromFieldTag = "defaultFromField"
	// Tag overriding the derived flag name. [Optional]
	nameTag = "name"
	// Tag marking a string field as a more concrete kind. [Optional]
	stringTypeTag = "type"
	// Supported values for stringTypeTag:
	stringTypeFile = "file"
	stringTypeIP   = "ip"
	// Special field holding the prefix for all flags in the struct.
	prefixFieldName = "flagPrefix"
)

// Process parses the given config struct and exposes a flag for every field
// carrying a `help` tag. When CLI or env was already parsed the field is
// overwritten with the flag's value, otherwise with its default.
func Process(data interface{}) error {
	value := reflect.ValueOf(data)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return errors.Errorf("argument needs to be a pointer to struct, got %s", value.Kind())
	}

	structValue := value.Elem()
	structType := structValue.Type()
	prefix := stringFromField(structValue.FieldByName(prefixFieldName))

	for i := 0; i < structValue.NumField(); i++ {
		field := structValue.Field(i)
		if !field.CanSet() {
			continue
		}

		// Embedded structs are processed by their own Process call.
		if structType.Field(i).Anonymous && field.Kind() == reflect.Struct {
			continue
		}

		p := fieldProcessor{
			prefix:      prefix,
			data:        structValue,
			field:       field,
			fieldStruct: structType.Field(i),
		}
		if err := p.process(); err != nil {
			return err
		}
	}
	return nil
}

func stringFromField(field reflect.Value) string {
	if field.Kind() == reflect.String {
		return field.String()
	}
	return ""
}

// nameFromFieldName derives a flag name, e.g. SomeSome becomes some_some.
func nameFromFieldName(name string) string {
	words := []string{}
	for _, word := range camelcase.Split(name) {
		if word == "_" {
			continue
		}
		words = append(words, strings.ToLower(word))
	}

	return strings.Join(words, "_")
}

type fieldProcessor struct {
	prefix      string
	data        reflect.Value
	field       reflect.Value
	fieldStruct reflect.StructField
}

func (f *fieldProcessor) flagName() string {
	name := f.fieldStruct.Tag.Get(nameTag)
	if name == "" {
		name = f.fieldStruct.Name
	}
	return nameFromFieldName(f.prefix + name)
}

func (f *fieldProcessor) defaultValue() string {
	defaultValue := f.fieldStruct.Tag.Get(defaultTag)
	if defaultValue == "" {
		// Fall back to a default carried by a sibling field.
		defaultValue = stringFromField(f.data.FieldByName(f.fieldStruct.Tag.Get(defaultFromFieldTag)))
	}
	return defaultValue
}

func (f *fieldProcessor) process() error {
	help := f.fieldStruct.Tag.Get(helpTag)
	if help == "" {
		// Field excluded from flag processing.
		return nil
	}

	name := f.flagName()
	defaultValue := f.defaultValue()

	switch f.field.Kind() {
	case reflect.String:
		switch f.fieldStruct.Tag.Get(stringTypeTag) {
		case stringTypeFile:
			f.field.SetString(NewFileFlag(name, help, defaultValue).Value())
		case stringTypeIP:
			f.field.SetString(NewIPFlag(name, help, defaultValue).Value())
		default:
			f.field.SetString(NewStringFlag(name, help, defaultValue).Value())
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f.field.Type() == reflect.TypeOf(time.Duration(0)) {
			var defaultDuration time.Duration
			if defaultValue != "" {
				var err error
				defaultDuration, err = time.ParseDuration(defaultValue)
				if err != nil {
					return errors.Wrapf(err, "wrong default value for duration flag %q", name)
				}
			}
			f.field.SetInt(int64(NewDurationFlag(name, help, defaultDuration).Value()))
			break
		}

		var defaultInt int
		if defaultValue != "" {
			var err error
			defaultInt, err = strconv.Atoi(defaultValue)
			if err != nil {
				return errors.Wrapf(err, "wrong default value for int flag %q", name)
			}
		}
		f.field.SetInt(int64(NewIntFlag(name, help, defaultInt).Value()))
	case reflect.Float64:
		var defaultFloat float64
		if defaultValue != "" {
			var err error
			defaultFloat, err = strconv.ParseFloat(defaultValue, 64)
			if err != nil {
				return errors.Wrapf(err, "wrong default value for float flag %q", name)
			}
		}
		f.field.SetFloat(NewFloatFlag(name, help, defaultFloat).Value())
	case reflect.Bool:
		defaultBool := false
		if defaultValue != "" {
			var err error
			defaultBool, err = strconv.ParseBool(defaultValue)
			if err != nil {
				return errors.Wrapf(err, "wrong default value for bool flag %q", name)
			}
		}
		f.field.SetBool(NewBoolFlag(name, help, defaultBool).Value())
	default:
		return errors.Errorf("unsupported field kind %s for flag %q", f.field.Kind(), name)
	}

	return nil
}
