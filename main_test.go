package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/r2r-testing/api-contract-tests/apitests"
	"github.com/r2r-testing/api-contract-tests/framework"
	"github.com/r2r-testing/api-contract-tests/report"
	"github.com/r2r-testing/api-contract-tests/servicedef"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
api_base_url: http://localhost:7272
api_version: v3
timeout: 30
retry_attempts: 3
endpoints:
  health: /v3/health
`

func writeConfig(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	return path
}

// parse runs the root command with a stub action and returns the parsed parameters and the
// loaded configuration.
func parse(t *testing.T, args ...string) (*commandParams, *servicedef.Config, error) {
	var params commandParams
	var cfg *servicedef.Config
	cmd := newRootCommand(&params, func(cmd *cobra.Command, p *commandParams) error {
		var err error
		cfg, err = p.loadConfig(cmd.Flags())
		return err
	})
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return &params, cfg, err
}

func TestDefaults(t *testing.T) {
	p, cfg, err := parse(t, "--config", writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, defaultReportsDir, p.reportsDir)
	assert.Equal(t, defaultMinSuccessRate, p.minSuccessRate)
	assert.False(t, p.filters.IsDefined())
	assert.False(t, p.uploadEnabled())
	assert.Equal(t, "http://localhost:7272", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.RetryAttempts)
}

func TestFlagsOverrideConfig(t *testing.T) {
	_, cfg, err := parse(t, "--config", writeConfig(t),
		"--url", "https://api.example.com", "--timeout", "5s", "--retries", "0")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.RetryAttempts)
}

func TestFilterFlags(t *testing.T) {
	p, _, err := parse(t, "--config", writeConfig(t),
		"--run", "^Collections/", "--run", "^Search/", "--skip", "Rapid")
	require.NoError(t, err)

	match := func(path ...string) bool { return p.filters.AsFilter(framework.TestID{Path: path}) }
	assert.True(t, match("Collections", "Create basic collection"))
	assert.True(t, match("Search", "Basic search"))
	assert.False(t, match("Search", "Rapid search #1/4"))
	assert.False(t, match("RAG", "Basic RAG"))
}

func TestInvalidFlags(t *testing.T) {
	config := writeConfig(t)
	for name, args := range map[string][]string{
		"bad regex":          {"--run", "("},
		"rate above 100":     {"--min-success-rate", "101"},
		"unknown format":     {"--format", "pdf"},
		"bucket missing":     {"--upload-endpoint", "localhost:9000"},
		"negative retries":   {"--retries", "-1"},
		"unsupported scheme": {"--url", "ftp://example.com"},
		"positional arg":     {"extra"},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := parse(t, append([]string{"--config", config}, args...)...)
			assert.Error(t, err)
		})
	}
}

func TestDelayFlag(t *testing.T) {
	p, _, err := parse(t, "--config", writeConfig(t))
	require.NoError(t, err)
	assert.Equal(t, apitests.DefaultDelay, p.delay)

	p, _, err = parse(t, "--config", writeConfig(t), "--delay", "0")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), p.delay)
}

func TestMinioConfigReadsKeysFromEnvironment(t *testing.T) {
	t.Setenv(accessKeyEnv, "access")
	t.Setenv(secretKeyEnv, "secret")
	p, _, err := parse(t, "--config", writeConfig(t),
		"--upload-endpoint", "localhost:9000", "--upload-bucket", "reports", "--upload-prefix", "nightly", "--upload-insecure")
	require.NoError(t, err)

	assert.True(t, p.uploadEnabled())
	assert.Equal(t, report.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "reports",
		Prefix:    "nightly",
		Insecure:  true,
	}, p.minioConfig())
}

func TestExecuteSetupErrorExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, &stdout, &stderr)
	assert.Equal(t, exitSetupError, code)
	assert.Contains(t, stderr.String(), "Error:")
}

func permissiveServer() *httptest.Server {
	return httptest.NewServer(httphelpers.HandlerWithJSONResponse(map[string]interface{}{
		"results": map[string]interface{}{
			"id":           "00000000-0000-0000-0000-00000000000a",
			"access_token": map[string]interface{}{"token": "tok"},
		},
	}, nil))
}

func TestExecuteWritesReports(t *testing.T) {
	server := permissiveServer()
	defer server.Close()
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{
		"--config", filepath.Join("configs", "api_config.yaml"),
		"--url", server.URL,
		"--retries", "0",
		"--delay", "0",
		"--format", "all",
		"--min-success-rate", "0",
		"--reports-dir", dir,
	}, &stdout, &stderr)

	assert.Equal(t, exitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "API CONTRACT TEST SUMMARY")
	assert.Contains(t, stdout.String(), "[Collections]")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(report.AllFormats))
}

func TestExecuteBelowThreshold(t *testing.T) {
	server := permissiveServer()
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{
		"--config", filepath.Join("configs", "api_config.yaml"),
		"--url", server.URL,
		"--retries", "0",
		"--delay", "0",
		"--run", "^Collections/",
		"--min-success-rate", "100",
		"--reports-dir", t.TempDir(),
	}, &stdout, &stderr)

	assert.Equal(t, exitBelowTarget, code)
}
