package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// envOverrides collects the variables named by `env` tags that are present in the process
// environment. Sections are keyed by their Go field name and leaves by the variable name,
// which is the shape mapstructure decodes back with TagName "env".
func envOverrides(t reflect.Type) map[string]interface{} {
	overrides := map[string]interface{}{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if section := envOverrides(field.Type); len(section) > 0 {
				overrides[field.Name] = section
			}
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}
		if value, ok := os.LookupEnv(name); ok {
			overrides[name] = strings.TrimSpace(value)
		}
	}
	return overrides
}

// loadFromEnv overrides configuration with environment variables.
// Values are strings, so numbers, booleans and durations are decoded weakly.
func loadFromEnv(config *Config) error {
	overrides := envOverrides(reflect.TypeOf(*config))
	if len(overrides) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "env",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           config,
	})
	if err != nil {
		return fmt.Errorf("failed to build env decoder: %w", err)
	}
	return decoder.Decode(overrides)
}
