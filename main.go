package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/r2r-testing/api-contract-tests/apitests"
	"github.com/r2r-testing/api-contract-tests/client"
	"github.com/r2r-testing/api-contract-tests/framework"
	"github.com/r2r-testing/api-contract-tests/report"
	"github.com/r2r-testing/api-contract-tests/results"

	"github.com/spf13/cobra"
)

const (
	exitOK          = 0
	exitBelowTarget = 1
	exitSetupError  = 2

	uploadTimeout = 2 * time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute parses args, runs the suite, and returns the process exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var params commandParams
	code := exitOK
	cmd := newRootCommand(&params, func(cmd *cobra.Command, p *commandParams) error {
		var err error
		code, err = runTests(cmd.Context(), cmd, p, stdout)
		return err
	})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitSetupError
	}
	return code
}

// runTests returns an error only for setup problems. Everything after the suite starts is
// reflected in the exit status instead.
func runTests(ctx context.Context, cmd *cobra.Command, p *commandParams, out io.Writer) (int, error) {
	api, err := p.loadConfig(cmd.Flags())
	if err != nil {
		return exitSetupError, err
	}
	formats, err := report.ParseFormats(p.formats)
	if err != nil {
		return exitSetupError, err
	}
	var uploader report.Uploader
	if p.uploadEnabled() {
		if uploader, err = report.NewMinioUploader(ctx, p.minioConfig()); err != nil {
			return exitSetupError, fmt.Errorf("report upload: %w", err)
		}
	}

	mainDebugLogger := framework.NullLogger()
	if p.debugAll {
		mainDebugLogger = log.New(out, "", log.LstdFlags)
	}

	cl := client.New(client.Config{
		BaseURL:    api.APIBaseURL,
		Timeout:    api.Timeout,
		MaxRetries: api.RetryAttempts,
	})
	recorder := results.NewRecorder(out)
	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: p.debug || p.debugAll,
		DebugOutputOnSuccess: p.debugAll,
	}

	fmt.Fprintf(out, "Running API contract tests against %s (API %s)\n", api.APIBaseURL, api.APIVersion)
	fmt.Fprintf(out, "Timeout %s, %d retries\n\n", api.Timeout, api.RetryAttempts)
	framework.PrintFilterDescription(out, p.filters)

	started := time.Now()
	suiteResults := apitests.RunTestSuite(ctx, cl, recorder, apitests.R2RCatalog(api), apitests.Options{
		Filter:      p.filters.AsFilter,
		TestLogger:  testLogger,
		DebugLogger: mainDebugLogger,
		Delay:       p.delay,
	})
	finished := time.Now()

	doc := report.NewDocument(report.Metadata{
		GeneratedAt: finished,
		BaseURL:     api.APIBaseURL,
		APIVersion:  api.APIVersion,
		Duration:    finished.Sub(started),
	}, recorder.Records())

	fmt.Fprintln(out)
	if err := report.WriteText(out, doc); err != nil {
		fmt.Fprintf(out, "Could not print summary: %s\n", err)
	}
	if ctx.Err() != nil {
		fmt.Fprintln(out, "Run was interrupted; reports include only the scenarios that ran.")
	}
	if faults := suiteResults.AllFaults(); len(faults) > 0 {
		fmt.Fprintln(out, "Categories that stopped early:")
		for _, f := range faults {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}

	reportFailed := false
	paths, err := report.Generate(p.reportsDir, doc, formats, finished)
	if err != nil {
		fmt.Fprintf(out, "Report generation failed: %s\n", err)
		reportFailed = true
	}
	if len(paths) > 0 {
		fmt.Fprintln(out, "Reports:")
		for _, path := range paths {
			fmt.Fprintf(out, "  %s\n", path)
		}
	}
	if uploader != nil && len(paths) > 0 {
		// the signal context may already be cancelled, so the upload gets its own
		uploadCtx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		err := report.UploadArtifacts(uploadCtx, uploader, paths)
		cancel()
		if err != nil {
			fmt.Fprintf(out, "Report upload failed: %s\n", err)
			reportFailed = true
		} else {
			fmt.Fprintf(out, "Uploaded %d report(s) via %s\n", len(paths), uploader.Name())
		}
	}

	if reportFailed || !doc.Summary.MeetsThreshold(p.minSuccessRate) {
		return exitBelowTarget, nil
	}
	return exitOK, nil
}
