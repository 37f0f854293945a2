package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	source := NewFileSource("testdata/config.yaml", 10)

	data, err := source.Load()
	require.NoError(t, err)

	assert.Equal(t, "file:testdata/config.yaml", source.Name())
	assert.Equal(t, 10, source.Priority())
	assert.Equal(t, "INFO", data["http.logging.level"])
	assert.Equal(t, true, data["http.logging.enabled"])
	assert.Equal(t, 8080, data["api_server.port"])
}

func TestFileSource_Missing(t *testing.T) {
	data, err := NewFileSource(filepath.Join(t.TempDir(), "absent.yaml"), 10).Load()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileSource_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [unclosed"), 0o644))

	_, err := NewFileSource(path, 10).Load()
	assert.ErrorContains(t, err, "read config file")
}

func TestEnvSource_Prefix(t *testing.T) {
	t.Setenv("HTTPLOG_HTTP_LOGGING_LEVEL", "DEBUG")
	t.Setenv("OTHER_HTTP_LOGGING_LEVEL", "ERROR")

	data, err := NewEnvSource("HTTPLOG", 50).Load()
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", data["http.logging.level"])
	assert.Len(t, data, 1)
}

func TestEnvSource_Bindings(t *testing.T) {
	t.Setenv("HTTPLOG_API_SERVER_PORT", "9000")

	source := NewEnvSource("HTTPLOG", 50)
	source.AddBinding("api_server.port", "API_SERVER_PORT")

	data, err := source.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"api_server.port": "9000"}, data)
}

func TestFlagSource_OnlyChangedFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("port", 8080, "")
	fs.String("http-logging-level", "INFO", "")
	fs.Bool("http-logging-enabled", true, "")
	fs.StringSlice("skip", nil, "")
	require.NoError(t, fs.Parse([]string{"--http-logging-level=WARN", "--http-logging-enabled=false", "--skip=/a,/b"}))

	source := NewFlagSource(fs, 100).
		Bind("http-logging-level", "http.logging.level").
		Bind("http-logging-enabled", "http.logging.enabled").
		Bind("skip", "http.logging.skip_paths")

	data, err := source.Load()
	require.NoError(t, err)

	assert.Equal(t, "WARN", data["http.logging.level"])
	assert.Equal(t, false, data["http.logging.enabled"])
	assert.Equal(t, []string{"/a", "/b"}, data["http.logging.skip_paths"])
	assert.NotContains(t, data, "api_server.port", "unchanged flags keep lower-priority values")
}

func TestFlagSource_DefaultKeys(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("port", 8080, "")
	require.NoError(t, fs.Parse([]string{"--port=9999"}))

	data, err := NewFlagSource(fs, 100).Load()
	require.NoError(t, err)
	assert.Equal(t, "9999", data["api_server.port"])
}

func TestFlagSource_NilFlagSet(t *testing.T) {
	data, err := NewFlagSource(nil, 100).Load()
	require.NoError(t, err)
	assert.Empty(t, data)
}
