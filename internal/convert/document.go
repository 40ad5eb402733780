package convert

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"vidmux/internal/fileutil"
	"vidmux/internal/services"
)

// documentFormats is the closed set of LibreOffice conversion targets.
var documentFormats = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"odt":  {},
	"txt":  {},
	"html": {},
	"rtf":  {},
	"xlsx": {},
	"ods":  {},
	"csv":  {},
	"pptx": {},
	"odp":  {},
}

// DocumentTargets lists the supported document formats in display order.
var DocumentTargets = []string{"pdf", "docx", "odt", "txt", "html", "rtf", "xlsx", "ods", "csv", "pptx", "odp"}

// DocumentExecutor abstracts command execution for testability.
type DocumentExecutor interface {
	Run(ctx context.Context, binary string, args []string) error
}

// DocumentOption configures the document converter.
type DocumentOption func(*DocumentConverter)

// WithDocumentExecutor injects a custom executor (primarily for tests).
func WithDocumentExecutor(exec DocumentExecutor) DocumentOption {
	return func(c *DocumentConverter) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// DocumentConverter wraps headless LibreOffice invocations. The binary is
// optional system-wide; construct only after the dependency check passes.
type DocumentConverter struct {
	binary string
	exec   DocumentExecutor
}

// NewDocumentConverter constructs a converter around the soffice binary.
func NewDocumentConverter(binary string, opts ...DocumentOption) (*DocumentConverter, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("document converter binary required")
	}
	conv := &DocumentConverter{
		binary: binary,
		exec:   sofficeExecutor{},
	}
	for _, opt := range opts {
		opt(conv)
	}
	return conv, nil
}

// ParseDocumentTarget validates a requested document format.
func ParseDocumentTarget(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.TrimPrefix(normalized, ".")
	if _, ok := documentFormats[normalized]; !ok {
		return "", fmt.Errorf("unsupported document target %q", value)
	}
	return normalized, nil
}

// Convert transforms inputPath into the target format inside outDir and
// returns the produced path. LibreOffice names the output after the input
// basename; callers wanting a different name rename afterwards.
func (c *DocumentConverter) Convert(ctx context.Context, inputPath, outDir, target string) (string, error) {
	parsed, err := ParseDocumentTarget(target)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "convert", "document", err.Error(), nil)
	}
	if strings.TrimSpace(inputPath) == "" || strings.TrimSpace(outDir) == "" {
		return "", services.Wrap(services.ErrValidation, "convert", "document", "input path and output directory required", nil)
	}

	args := []string{
		"--headless",
		"--convert-to", parsed,
		"--outdir", outDir,
		inputPath,
	}
	if err := c.exec.Run(ctx, c.binary, args); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "convert", "document", "soffice run", err)
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	produced := filepath.Join(outDir, base+"."+parsed)
	// soffice exits zero on some failures; only the output file proves success.
	if fileutil.FileSize(produced) == 0 {
		return "", services.Wrap(services.ErrExternalTool, "convert", "document",
			fmt.Sprintf("soffice produced no output for %s", filepath.Base(inputPath)), nil)
	}
	return produced, nil
}

type sofficeExecutor struct{}

func (sofficeExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
