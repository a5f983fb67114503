package main

import (
	"fmt"
	"os"
	"time"

	"github.com/r2r-testing/api-contract-tests/apitests"
	"github.com/r2r-testing/api-contract-tests/framework"
	"github.com/r2r-testing/api-contract-tests/report"
	"github.com/r2r-testing/api-contract-tests/servicedef"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	defaultConfigPath     = "configs/api_config.yaml"
	defaultReportsDir     = "reports"
	defaultMinSuccessRate = 50.0

	accessKeyEnv = "API_TESTS_UPLOAD_ACCESS_KEY"
	secretKeyEnv = "API_TESTS_UPLOAD_SECRET_KEY"
)

type commandParams struct {
	configPath     string
	baseURL        string
	timeout        time.Duration
	retries        int
	filters        framework.RegexFilters
	debug          bool
	debugAll       bool
	reportsDir     string
	formats        string
	minSuccessRate float64
	delay          time.Duration
	upload         uploadParams
}

type uploadParams struct {
	endpoint string
	bucket   string
	prefix   string
	region   string
	insecure bool
}

func newRootCommand(p *commandParams, run func(cmd *cobra.Command, p *commandParams) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api-contract-tests",
		Short: "Run black-box contract tests against an HTTP API",
		Long: `api-contract-tests runs a catalog of request scenarios against a live API, compares each
response status with the expected one, and writes JSON, HTML, text, and XLSX reports.

The process exits with 0 if the overall success rate meets --min-success-rate, 1 if it does
not, and 2 if the run could not be set up.`,
		Example: `  api-contract-tests --url http://localhost:7272
  api-contract-tests --run 'Collections/.*' --format all --debug
  api-contract-tests --skip 'RAG' --min-success-rate 90 --upload-endpoint minio:9000 --upload-bucket reports`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := p.validate(); err != nil {
				return err
			}
			return run(cmd, p)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&p.configPath, "config", "c", defaultConfigPath, "API definition file (YAML or JSON)")
	fs.StringVar(&p.baseURL, "url", "", "override the base URL from the config file")
	fs.DurationVar(&p.timeout, "timeout", servicedef.DefaultTimeout, "override the per-request timeout")
	fs.IntVar(&p.retries, "retries", servicedef.DefaultRetryAttempts, "override the number of retries after a transport failure")
	fs.Var(&p.filters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	fs.Var(&p.filters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")
	fs.BoolVar(&p.debug, "debug", false, "show debug output for failed categories")
	fs.BoolVar(&p.debugAll, "debug-all", false, "show debug output for all categories")
	fs.StringVarP(&p.reportsDir, "reports-dir", "o", defaultReportsDir, "directory that reports are written to")
	fs.StringVarP(&p.formats, "format", "f", "json,html", `report formats: json, html, txt, xlsx, or "all"`)
	fs.Float64Var(&p.minSuccessRate, "min-success-rate", defaultMinSuccessRate, "success rate percentage required for exit status 0")
	fs.DurationVar(&p.delay, "delay", apitests.DefaultDelay, "pause between scenarios (0 for none)")
	fs.StringVar(&p.upload.endpoint, "upload-endpoint", "", "S3-compatible endpoint to upload reports to, e.g. localhost:9000")
	fs.StringVar(&p.upload.bucket, "upload-bucket", "", "bucket to upload reports to")
	fs.StringVar(&p.upload.prefix, "upload-prefix", "", "object name prefix for uploaded reports")
	fs.StringVar(&p.upload.region, "upload-region", "", "bucket region")
	fs.BoolVar(&p.upload.insecure, "upload-insecure", false, "use plain HTTP for uploads")
	return cmd
}

func (p *commandParams) validate() error {
	if p.minSuccessRate < 0 || p.minSuccessRate > 100 {
		return fmt.Errorf("--min-success-rate must be between 0 and 100, got %v", p.minSuccessRate)
	}
	if _, err := report.ParseFormats(p.formats); err != nil {
		return err
	}
	if (p.upload.endpoint == "") != (p.upload.bucket == "") {
		return fmt.Errorf("--upload-endpoint and --upload-bucket must be used together")
	}
	return nil
}

// loadConfig reads the API definition and applies the flags that were given explicitly.
func (p *commandParams) loadConfig(flags *pflag.FlagSet) (*servicedef.Config, error) {
	cfg, err := servicedef.Load(p.configPath)
	if err != nil {
		return nil, err
	}
	if flags.Changed("url") {
		cfg.APIBaseURL = p.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = p.timeout
	}
	if flags.Changed("retries") {
		cfg.RetryAttempts = p.retries
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration after applying flags: %w", err)
	}
	return cfg, nil
}

func (p *commandParams) uploadEnabled() bool {
	return p.upload.endpoint != ""
}

func (p *commandParams) minioConfig() report.MinioConfig {
	return report.MinioConfig{
		Endpoint:  p.upload.endpoint,
		AccessKey: os.Getenv(accessKeyEnv),
		SecretKey: os.Getenv(secretKeyEnv),
		Bucket:    p.upload.bucket,
		Prefix:    p.upload.prefix,
		Region:    p.upload.region,
		Insecure:  p.upload.insecure,
	}
}
