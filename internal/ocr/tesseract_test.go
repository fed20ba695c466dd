package ocr

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxlens/rxlens/internal/config"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t640\t480\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t10\t90\t20\t96.5\tMETFORMIN\n" +
	"5\t1\t1\t1\t1\t2\t110\t10\t60\t20\t91.5\t500MG\n" +
	"5\t1\t1\t1\t2\t1\t10\t40\t50\t20\t88.0\tTake\n" +
	"5\t1\t1\t1\t2\t2\t70\t40\t50\t20\t-1\t \n" +
	"5\t1\t1\t1\t2\t3\t130\t40\t50\t20\t84.0\tdaily\n"

func TestParseTSV(t *testing.T) {
	text, confidence := parseTSV(sampleTSV)

	assert.Equal(t, "METFORMIN 500MG\nTake daily", text)
	assert.InDelta(t, 90.0, confidence, 0.001, "mean of the four valid word confidences")
}

func TestParseTSVEmpty(t *testing.T) {
	text, confidence := parseTSV("")
	assert.Empty(t, text)
	assert.Zero(t, confidence)

	// Layout-only output without word rows also yields nothing.
	text, confidence = parseTSV("level\tpage_num\n1\t1\n")
	assert.Empty(t, text)
	assert.Zero(t, confidence)
}

func TestTesseractRecognize(t *testing.T) {
	p := NewTesseractProvider(config.OCRConfig{}, nil)

	var gotArgs []string
	p.runner = func(_ context.Context, stdin []byte, args ...string) ([]byte, error) {
		gotArgs = args
		assert.Equal(t, []byte("fake-image"), stdin)
		return []byte(sampleTSV), nil
	}

	res, err := p.Recognize(context.Background(), []byte("fake-image"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "METFORMIN 500MG\nTake daily", res.Text)
	assert.InDelta(t, 90.0, res.Confidence, 0.001)

	joined := strings.Join(gotArgs, " ")
	assert.Contains(t, joined, "--psm 6")
	assert.Contains(t, joined, "--oem 1")
	assert.Contains(t, joined, "preserve_interword_spaces=1")
	assert.Contains(t, joined, "tsv")
}
