package stream

import (
	"fmt"
	"io"
	"os/exec"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

// Open spawns ffmpeg decoding streamRef into signed 16-bit little-endian
// PCM at the voice sample rate. The reconnect flags keep long tracks alive
// over flaky CDN connections. The returned cleanup kills and reaps the
// process; call it once the reader is no longer needed.
func Open(streamRef string) (io.ReadCloser, func(), error) {
	ffmpeg := exec.Command("ffmpeg",
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", streamRef,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	reader, err := ffmpeg.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe error: %w", err)
	}

	if err := ffmpeg.Start(); err != nil {
		return nil, nil, fmt.Errorf("command start error: %w", err)
	}

	cleanup := func() {
		ffmpeg.Process.Kill()
		ffmpeg.Wait()
	}

	return reader, cleanup, nil
}
