package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Writer is the sink for finished embeddings. PutData must not retain vector.
type Writer interface {
	PutMetadata(entities, dimension int) error
	PutData(name string, occurrence uint32, vector []float32) error
	Finish() error
}

// Compression selects the stream compression of a TextWriter.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// ParseCompression validates a compression name. The empty string means none.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(s); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionZstd, CompressionLZ4:
		return c, nil
	default:
		return "", fmt.Errorf("output: unknown compression %q", s)
	}
}

var (
	// ErrNoMetadata is returned when data arrives before the metadata record.
	ErrNoMetadata = errors.New("output: data written before metadata")
	// ErrFinished is returned on writes after Finish.
	ErrFinished = errors.New("output: writer already finished")
)

type writerState int

const (
	stateNew writerState = iota
	stateOpen
	stateFinished
)

// TextWriter writes embeddings as space-separated text lines.
type TextWriter struct {
	bw    *bufio.Writer
	codec io.WriteCloser // nil when uncompressed
	state writerState
	line  []byte
}

// NewTextWriter wraps w. The caller still owns (and closes) w.
func NewTextWriter(w io.Writer, c Compression) (*TextWriter, error) {
	tw := &TextWriter{}
	switch c {
	case "", CompressionNone:
		tw.bw = bufio.NewWriter(w)
	case CompressionZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("output: zstd: %w", err)
		}
		tw.codec = enc
		tw.bw = bufio.NewWriter(enc)
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		tw.codec = zw
		tw.bw = bufio.NewWriter(zw)
	default:
		return nil, fmt.Errorf("output: unknown compression %q", c)
	}
	return tw, nil
}

func (t *TextWriter) PutMetadata(entities, dimension int) error {
	if t.state == stateFinished {
		return ErrFinished
	}
	t.line = strconv.AppendInt(t.line[:0], int64(entities), 10)
	t.line = append(t.line, ' ')
	t.line = strconv.AppendInt(t.line, int64(dimension), 10)
	t.line = append(t.line, '\n')
	t.state = stateOpen
	_, err := t.bw.Write(t.line)
	return err
}

func (t *TextWriter) PutData(name string, occurrence uint32, vector []float32) error {
	switch t.state {
	case stateNew:
		return ErrNoMetadata
	case stateFinished:
		return ErrFinished
	}
	t.line = append(t.line[:0], name...)
	t.line = append(t.line, ' ')
	t.line = strconv.AppendUint(t.line, uint64(occurrence), 10)
	for _, v := range vector {
		t.line = append(t.line, ' ')
		t.line = strconv.AppendFloat(t.line, float64(v), 'g', -1, 32)
	}
	t.line = append(t.line, '\n')
	_, err := t.bw.Write(t.line)
	return err
}

// Finish flushes buffered lines and closes the compression stream.
func (t *TextWriter) Finish() error {
	if t.state == stateFinished {
		return ErrFinished
	}
	t.state = stateFinished
	if err := t.bw.Flush(); err != nil {
		return err
	}
	if t.codec != nil {
		return t.codec.Close()
	}
	return nil
}
