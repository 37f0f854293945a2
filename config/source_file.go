package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"
)

// FileSource reads a yaml/json/toml file through viper. A missing file yields no keys.
type FileSource struct {
	path     string
	priority int
	found    bool
}

// NewFileSource creates a file source
func NewFileSource(path string, priority int) *FileSource {
	return &FileSource{path: path, priority: priority}
}

// Name source name
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Priority source priority
func (s *FileSource) Priority() int {
	return s.priority
}

// Load reads the file and flattens it
func (s *FileSource) Load() (map[string]interface{}, error) {
	s.found = false
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("stat config file %s: %w", s.path, err)
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", s.path, err)
	}

	s.found = true
	return flattenMap("", v.AllSettings()), nil
}

// flattenMap {"http": {"logging": {"level": "DEBUG"}}} -> {"http.logging.level": "DEBUG"}
func flattenMap(prefix string, data map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok {
			for k, v := range flattenMap(fullKey, nested) {
				result[k] = v
			}
			continue
		}
		result[fullKey] = value
	}

	return result
}
