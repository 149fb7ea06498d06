package cli

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pingstrip/internal/errors"
	"github.com/rileyhilliard/pingstrip/internal/logger"
)

func TestRunWritesPNGAndSummary(t *testing.T) {
	dir := t.TempDir()
	cfg := fastConfig()
	cfg.Output.PNG = filepath.Join(dir, "strip.png")
	cfg.Output.Scale = 2

	var out bytes.Buffer
	log := logger.NewBufferLogger()
	err := Run(context.Background(), RunOptions{
		Config:   cfg,
		Duration: 150 * time.Millisecond,
		Out:      &out,
		Logger:   log,
		Executor: replyExec(nil, "80"),
	})
	require.NoError(t, err)

	f, err := os.Open(cfg.Output.PNG)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	// 4 samples x 2px bars x 6px tall, doubled.
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 12, img.Bounds().Dy())

	assert.Contains(t, out.String(), "--- 192.0.2.1 ping statistics ---")
	assert.Contains(t, out.String(), "0 lost")

	var sawFrame bool
	for _, msg := range log.Snapshot() {
		if msg.Level == "info" && strings.Contains(msg.Message, "seq=1 80.000 ms") {
			sawFrame = true
		}
	}
	assert.True(t, sawFrame, "each frame is logged")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestRunWithoutOutputs(t *testing.T) {
	err := Run(context.Background(), RunOptions{
		Config:   fastConfig(),
		Duration: 60 * time.Millisecond,
		Executor: silentExec,
	})
	assert.NoError(t, err, "a run of failed probes is not an error")
}

func TestRunListenAddressInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := fastConfig()
	cfg.Listen = l.Addr().String()

	err = Run(context.Background(), RunOptions{
		Config:   cfg,
		Duration: 5 * time.Second,
		Executor: replyExec(nil, "1"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrServe))
}

func TestWritePNGMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "strip.png")
	err := writePNG(path, image.NewRGBA(image.Rect(0, 0, 4, 6)), 1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRender))
}
