package config

import (
	"os"
	"strings"
)

// EnvSource reads environment variables.
// Without bindings every PREFIX_A_B variable maps to key "a.b"; keys that contain
// underscores (api_server.port) need an explicit binding.
type EnvSource struct {
	prefix   string
	priority int
	bindings map[string]string // config key -> env name (prefix optional)
}

// NewEnvSource creates an env source
func NewEnvSource(prefix string, priority int) *EnvSource {
	return &EnvSource{
		prefix:   prefix,
		priority: priority,
		bindings: make(map[string]string),
	}
}

// AddBinding maps key to envKey, e.g. AddBinding("api_server.port", "API_SERVER_PORT")
func (s *EnvSource) AddBinding(key, envKey string) {
	s.bindings[key] = envKey
}

// Name source name
func (s *EnvSource) Name() string {
	return "env:" + s.prefix
}

// Priority source priority
func (s *EnvSource) Priority() int {
	return s.priority
}

// Load collects the matching variables
func (s *EnvSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{})

	if len(s.bindings) > 0 {
		for key, envKey := range s.bindings {
			fullEnvKey := envKey
			if s.prefix != "" && !strings.HasPrefix(envKey, s.prefix+"_") {
				fullEnvKey = s.prefix + "_" + envKey
			}
			if value, ok := os.LookupEnv(fullEnvKey); ok && value != "" {
				result[key] = value
			}
		}
		return result, nil
	}

	if s.prefix == "" {
		return result, nil
	}

	prefix := s.prefix + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		// APP_HTTP_LOGGING_LEVEL -> http.logging.level
		configKey := strings.ToLower(strings.TrimPrefix(name, prefix))
		result[strings.ReplaceAll(configKey, "_", ".")] = value
	}

	return result, nil
}
