package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Format is a report file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatText Format = "txt"
	FormatXLSX Format = "xlsx"
)

// AllFormats lists every format in the order Generate writes them.
var AllFormats = []Format{FormatJSON, FormatHTML, FormatText, FormatXLSX}

// DefaultFormats are written when no formats are requested.
var DefaultFormats = []Format{FormatJSON, FormatHTML}

// TimestampLayout is the layout of the timestamp in report file names.
const TimestampLayout = "20060102_150405"

// ParseFormats parses a comma-separated list such as "json,html". "all" selects every format.
func ParseFormats(s string) ([]Format, error) {
	seen := make(map[Format]bool)
	var ret []Format
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if name == "all" {
			return append([]Format(nil), AllFormats...), nil
		}
		if name == "text" {
			name = string(FormatText)
		}
		f := Format(name)
		if _, ok := writers[f]; !ok {
			return nil, fmt.Errorf("unknown report format %q", part)
		}
		if !seen[f] {
			seen[f] = true
			ret = append(ret, f)
		}
	}
	if len(ret) == 0 {
		return append([]Format(nil), DefaultFormats...), nil
	}
	return ret, nil
}

var writers = map[Format]func(io.Writer, Document) error{
	FormatJSON: WriteJSON,
	FormatHTML: WriteHTML,
	FormatText: WriteText,
	FormatXLSX: WriteXLSX,
}

// FileName returns the name of a report file: api_test_results_<ts>.json for the raw
// results and api_test_report_<ts>.<ext> for the rendered reports.
func FileName(f Format, ts time.Time) string {
	stamp := ts.Format(TimestampLayout)
	if f == FormatJSON {
		return fmt.Sprintf("api_test_results_%s.json", stamp)
	}
	return fmt.Sprintf("api_test_report_%s.%s", stamp, f)
}

// Generate writes one file per format into dir, creating dir if needed, and returns the paths
// written. It stops at the first failure.
func Generate(dir string, doc Document, formats []Format, now time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating reports directory: %w", err)
	}
	var paths []string
	for _, f := range formats {
		write, ok := writers[f]
		if !ok {
			return paths, fmt.Errorf("unknown report format %q", f)
		}
		var buf bytes.Buffer
		if err := write(&buf, doc); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, FileName(f, now))
		if err := atomicWriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// atomicWriteFile writes data to a temp file in the same directory and renames it into place,
// so a reader never sees a partial report.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}
