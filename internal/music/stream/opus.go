package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"layeh.com/gopus"
)

// EncodeToOpus reads PCM off pcm, Opus-encodes it frame by frame and pushes
// the packets to send until the stream ends or stop is closed. While paused
// reports true, reading is suspended without consuming the stream. Returns
// nil on end of stream or stop, an error on read/encode failure.
func EncodeToOpus(pcm io.Reader, send chan<- []byte, stop <-chan struct{}, paused func() bool) error {
	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("encoder error: %w", err)
	}

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if paused != nil && paused() {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		_, err := io.ReadFull(pcm, pcmBuf)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}

		for i := range intBuf {
			intBuf[i] = int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
		}

		opus, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			return fmt.Errorf("encode error: %w", err)
		}

		select {
		case send <- opus:
		case <-stop:
			return nil
		}
	}
}
