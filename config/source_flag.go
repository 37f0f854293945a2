package config

import (
	"strings"

	"github.com/spf13/pflag"
)

// defaultFlagKeys maps the common flag names to their configuration keys
var defaultFlagKeys = map[string][]string{
	"port":      {"api_server.port"},
	"host":      {"api_server.host"},
	"log-level": {"logger.level"},
}

// FlagSource reads the flags the user actually set on a pflag.FlagSet.
// Unset flags never override lower-priority sources, even when they have a default.
type FlagSource struct {
	flags    *pflag.FlagSet
	priority int
	bindings map[string][]string // flag name -> config keys
}

// NewFlagSource creates a flag source over flags
func NewFlagSource(flags *pflag.FlagSet, priority int) *FlagSource {
	return &FlagSource{
		flags:    flags,
		priority: priority,
		bindings: make(map[string][]string),
	}
}

// Bind maps flagName to one or more configuration keys
func (s *FlagSource) Bind(flagName string, keys ...string) *FlagSource {
	s.bindings[flagName] = append(s.bindings[flagName], keys...)
	return s
}

// Name source name
func (s *FlagSource) Name() string {
	return "flags"
}

// Priority source priority
func (s *FlagSource) Priority() int {
	return s.priority
}

// Load returns the changed flags. Values are the flag's string form;
// viper's weak decoding converts them on Unmarshal.
func (s *FlagSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{})
	if s.flags == nil {
		return result, nil
	}

	s.flags.Visit(func(f *pflag.Flag) {
		for _, key := range s.keysFor(f.Name) {
			result[key] = flagValue(f)
		}
	})
	return result, nil
}

func (s *FlagSource) keysFor(flagName string) []string {
	if keys, ok := s.bindings[flagName]; ok {
		return keys
	}
	return defaultFlagKeys[flagName]
}

func flagValue(f *pflag.Flag) interface{} {
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		return sv.GetSlice()
	}
	if f.Value.Type() == "bool" {
		return strings.EqualFold(f.Value.String(), "true")
	}
	return f.Value.String()
}
