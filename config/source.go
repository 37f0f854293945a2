package config

// ConfigSource supplies flat, dot-separated configuration keys such as "http.logging.level".
//
// Suggested priorities:
//   - config.yaml: 10
//   - <env>.yaml: 20
//   - environment variables: 50
//   - command-line flags: 100
type ConfigSource interface {
	Name() string
	// Priority higher values override lower ones
	Priority() int
	Load() (map[string]interface{}, error)
}
