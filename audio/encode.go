package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// EncodeWAV renders s into an in-memory WAV payload.
func EncodeWAV(s beep.Streamer, format beep.Format) ([]byte, error) {
	var w writeSeeker
	if err := wav.Encode(&w, s, format); err != nil {
		return nil, fmt.Errorf("failed to encode wav: %w", err)
	}
	return w.buf, nil
}

// writeSeeker is the in-memory io.WriteSeeker wav.Encode needs to patch its
// header sizes after the data is written.
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	end := w.pos + len(p)
	if end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:], p)
	w.pos = end
	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	w.pos = int(abs)
	return abs, nil
}
