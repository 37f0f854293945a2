package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Loader merges configuration sources by priority into a viper instance
type Loader struct {
	sources      []ConfigSource
	mergedConfig map[string]interface{} // flat, dot-separated keys
	v            *viper.Viper
	loadedFiles  []string
}

// NewLoader creates an empty loader
func NewLoader() *Loader {
	return &Loader{
		sources:      make([]ConfigSource, 0),
		mergedConfig: make(map[string]interface{}),
		v:            viper.New(),
	}
}

// AddSource registers a source; order does not matter, Priority does
func (l *Loader) AddSource(source ConfigSource) {
	l.sources = append(l.sources, source)
}

// Load reads every source from lowest to highest priority; later keys win
func (l *Loader) Load() error {
	sort.SliceStable(l.sources, func(i, j int) bool {
		return l.sources[i].Priority() < l.sources[j].Priority()
	})

	merged := make(map[string]interface{})
	var files []string
	for _, source := range l.sources {
		data, err := source.Load()
		if err != nil {
			return fmt.Errorf("load source %s: %w", source.Name(), err)
		}
		if fileSource, ok := source.(*FileSource); ok && fileSource.found {
			files = append(files, fileSource.path)
		}
		for key, value := range data {
			merged[strings.ToLower(key)] = value
		}
	}

	l.mergedConfig = merged
	l.loadedFiles = files
	l.syncToViper()
	return nil
}

func (l *Loader) syncToViper() {
	l.v = viper.New()
	for key, value := range unflattenMap(l.mergedConfig) {
		l.v.Set(key, value)
	}
}

// unflattenMap {"http.logging.level": "DEBUG"} -> {"http": {"logging": {"level": "DEBUG"}}}
func unflattenMap(flat map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	// shorter keys first so a deeper key replaces a scalar parent, not the reverse
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		setNestedValue(result, splitKey(key), flat[key])
	}
	return result
}

func setNestedValue(m map[string]interface{}, keys []string, value interface{}) {
	if len(keys) == 0 {
		return
	}

	current := m
	for _, k := range keys[:len(keys)-1] {
		nested, ok := current[k].(map[string]interface{})
		if !ok {
			nested = make(map[string]interface{})
			current[k] = nested
		}
		current = nested
	}
	current[keys[len(keys)-1]] = value
}

func splitKey(key string) []string {
	parts := strings.Split(key, ".")
	result := parts[:0]
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Unmarshal decodes the whole configuration into v (mapstructure tags)
func (l *Loader) Unmarshal(v interface{}) error {
	return l.v.Unmarshal(v)
}

// UnmarshalKey decodes the subtree under key into v
func (l *Loader) UnmarshalKey(key string, v interface{}) error {
	return l.v.UnmarshalKey(key, v)
}

// Get returns the raw value at key
func (l *Loader) Get(key string) interface{} {
	return l.v.Get(key)
}

// GetString returns key as a string
func (l *Loader) GetString(key string) string {
	return l.v.GetString(key)
}

// GetInt returns key as an int
func (l *Loader) GetInt(key string) int {
	return l.v.GetInt(key)
}

// GetBool returns key as a bool
func (l *Loader) GetBool(key string) bool {
	return l.v.GetBool(key)
}

// IsSet reports whether any source supplied key
func (l *Loader) IsSet(key string) bool {
	return l.v.IsSet(key)
}

// AllSettings returns the merged nested configuration
func (l *Loader) AllSettings() map[string]interface{} {
	return l.v.AllSettings()
}

// GetLoadedFiles lists the config files that existed and were read
func (l *Loader) GetLoadedFiles() []string {
	return l.loadedFiles
}

// GetViper exposes the underlying viper instance
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// Reload re-reads every source
func (l *Loader) Reload() error {
	return l.Load()
}
