package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/pkg/errors"
)

// ---------------------------------------------------------------------------
// Tesseract provider
// ---------------------------------------------------------------------------

// TesseractProvider shells out to the tesseract binary in TSV mode and
// reconstructs line text plus a mean word confidence from its output. The
// page-segmentation and engine modes are pinned so results are reproducible
// across hosts.
type TesseractProvider struct {
	binary string
	lang   string
	psm    int
	oem    int
	logger logging.Logger

	// runner is swapped in tests to avoid invoking the real binary.
	runner func(ctx context.Context, stdin []byte, args ...string) ([]byte, error)
}

// NewTesseractProvider builds a provider from cfg. Zero-value settings fall
// back to the configured defaults.
func NewTesseractProvider(cfg config.OCRConfig, log logging.Logger) *TesseractProvider {
	if cfg.TesseractPath == "" {
		cfg.TesseractPath = config.DefaultTesseractPath
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = config.DefaultTesseractLang
	}
	if cfg.TesseractPSM == 0 {
		cfg.TesseractPSM = config.DefaultTesseractPSM
	}
	if cfg.TesseractOEM == 0 {
		cfg.TesseractOEM = config.DefaultTesseractOEM
	}
	if log == nil {
		log = logging.NewNop()
	}
	p := &TesseractProvider{
		binary: cfg.TesseractPath,
		lang:   cfg.TesseractLang,
		psm:    cfg.TesseractPSM,
		oem:    cfg.TesseractOEM,
		logger: log,
	}
	p.runner = p.run
	return p
}

// Name implements Provider.
func (p *TesseractProvider) Name() string {
	return "tesseract"
}

// Recognize implements Provider. The image is streamed over stdin and the
// TSV output is folded into text lines with a mean confidence.
func (p *TesseractProvider) Recognize(ctx context.Context, image []byte, _ string) (Result, error) {
	args := []string{
		"stdin", "stdout",
		"-l", p.lang,
		"--psm", strconv.Itoa(p.psm),
		"--oem", strconv.Itoa(p.oem),
		"-c", "preserve_interword_spaces=1",
		"tsv",
	}
	out, err := p.runner(ctx, image, args...)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrCodeOCREngineUnavailable, "tesseract invocation failed")
	}

	text, confidence := parseTSV(string(out))
	return Result{Text: text, Confidence: confidence}, nil
}

func (p *TesseractProvider) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, p.binary, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w (%s)", p.binary, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// parseTSV folds tesseract TSV output into reconstructed text and the mean
// confidence of its word rows. Word rows are level 5; rows with a negative
// confidence are layout artifacts and are skipped. Words sharing a
// page/block/paragraph/line key join with spaces, distinct keys start a new
// line.
func parseTSV(tsv string) (string, float64) {
	var (
		lines    []string
		current  []string
		lastKey  string
		confSum  float64
		confRows int
	)

	flush := func() {
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for i, row := range strings.Split(tsv, "\n") {
		if i == 0 {
			continue // header
		}
		cols := strings.Split(row, "\t")
		if len(cols) < 12 {
			continue
		}
		if cols[0] != "5" {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}

		key := strings.Join(cols[1:5], "/")
		if key != lastKey {
			flush()
			lastKey = key
		}
		current = append(current, word)
		confSum += conf
		confRows++
	}
	flush()

	if confRows == 0 {
		return "", 0
	}
	return strings.Join(lines, "\n"), confSum / float64(confRows)
}
