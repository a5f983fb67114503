package servicedef

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "api_base_url": "http://localhost:7272",
  "api_version": "v3",
  "timeout": 12,
  "retry_attempts": 0,
  "endpoints": {
    "health": "/v3/health",
    "collections_get": "/v3/collections/{id}"
  }
}`

const sampleYAML = `
api_base_url: https://api.example.com
api_version: v3
timeout: 1500ms
endpoints:
  health: /v3/health
`

func TestParseJSON(t *testing.T) {
	cfg, err := Parse([]byte(sampleJSON), "json")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:7272", cfg.APIBaseURL)
	assert.Equal(t, "v3", cfg.APIVersion)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.RetryAttempts, "explicit zero must not be replaced by the default")
	assert.Equal(t, []string{"collections_get", "health"}, cfg.EndpointNames())
}

func TestParseYAMLAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), "yaml")
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, DefaultRetryAttempts, cfg.RetryAttempts)
}

func TestParseDefaultTimeout(t *testing.T) {
	cfg, err := Parse([]byte(`{"api_base_url": "http://localhost"}`), "json")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Empty(t, cfg.Endpoints)
}

func TestParseFractionalTimeout(t *testing.T) {
	cfg, err := Parse([]byte(`{"api_base_url": "http://localhost", "timeout": 0.5}`), "json")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout)
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	for name, data := range map[string]string{
		"missing base URL":    `{"timeout": 5}`,
		"non-HTTP base URL":   `{"api_base_url": "ftp://example.com"}`,
		"bad timeout":         `{"api_base_url": "http://localhost", "timeout": "soon"}`,
		"zero timeout":        `{"api_base_url": "http://localhost", "timeout": 0}`,
		"negative retries":    `{"api_base_url": "http://localhost", "retry_attempts": -1}`,
		"double placeholder":  `{"api_base_url": "http://localhost", "endpoints": {"x": "/a/{id}/b/{id}"}}`,
		"malformed JSON":      `{"api_base_url": `,
		"wrong timeout shape": `{"api_base_url": "http://localhost", "timeout": [1]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data), "json")
			assert.Error(t, err)
		})
	}
}

func TestValidateReportsFirstBadEndpointByName(t *testing.T) {
	cfg := &Config{
		APIBaseURL: "http://localhost",
		Timeout:    time.Second,
		Endpoints: map[string]string{
			"zeta":  "/z/{id}/{id}",
			"alpha": "/a/{id}/{id}",
			"mid":   "/m/{id}",
		},
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, cfg.EndpointNames())
	for i := 0; i < 5; i++ {
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `endpoint "alpha"`)
	}
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse([]byte(sampleJSON), "toml")
	assert.Error(t, err)
}

func TestLoadChoosesFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "api.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))
	jsonPath := filepath.Join(dir, "api.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleJSON), 0o644))

	cfg, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)

	cfg, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:7272", cfg.APIBaseURL)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestShippedConfigIsValid(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "configs", "api_config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, cfg.Endpoints, "health")
}

func TestPaths(t *testing.T) {
	cfg, err := Parse([]byte(sampleJSON), "json")
	require.NoError(t, err)

	p, err := cfg.Path("health")
	require.NoError(t, err)
	assert.Equal(t, "/v3/health", p)

	p, err = cfg.EntityPath("collections_get", "abc 123/x")
	require.NoError(t, err)
	assert.Equal(t, "/v3/collections/abc%20123%2Fx", p)

	_, err = cfg.Path("collections_get")
	assert.Error(t, err)
	_, err = cfg.EntityPath("health", "1")
	assert.Error(t, err)
	_, err = cfg.Path("nope")
	assert.Error(t, err)
	_, err = cfg.EntityPath("nope", "1")
	assert.Error(t, err)
}
