package snapshot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/Sumatoshi-tech/treemap/pkg/codec"
	"github.com/Sumatoshi-tech/treemap/pkg/safeconv"
	"github.com/Sumatoshi-tech/treemap/pkg/treemap"
)

// Write stores the pairs of m, in m's order, with values encoded by c.
func Write[V any](w io.Writer, m treemap.Readable[V], c codec.Codec[V], opts ...Option) error {
	if c == nil {
		return fmt.Errorf("%w: nil value codec", codec.ErrUnknownCodec)
	}

	return write(w, m, c, applyOptions(opts))
}

// WriteKeys stores the keys of m, in m's order, without values.
func WriteKeys[V any](w io.Writer, m treemap.Readable[V], opts ...Option) error {
	return write[V](w, m, nil, applyOptions(opts))
}

func write[V any](w io.Writer, m treemap.Readable[V], c codec.Codec[V], o options) error {
	counter := &countingWriter{w: w}
	bw := bufio.NewWriter(counter)
	hdr := Header{Version: Version, Compressed: o.compress, KeysOnly: c == nil}

	_, err := bw.Write(hdr.bytes())
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var zw *lz4.Writer

	enc := &encoder{w: bw}

	if o.compress {
		zw = lz4.NewWriter(bw)
		enc.w = zw
	}

	size := m.Len()
	enc.uvarint(safeconv.MustIntToUint64(size))

	written, prev := 0, 0

	for key, value := range m.All() {
		enc.varint(int64(key - prev))
		prev = key

		if c != nil {
			data, marshalErr := c.Marshal(value)
			if marshalErr != nil {
				return fmt.Errorf("encode value of key %d: %w", key, marshalErr)
			}

			enc.uvarint(safeconv.MustIntToUint64(len(data)))
			enc.write(data)
		}

		if enc.err != nil {
			return fmt.Errorf("write pair %d: %w", written, enc.err)
		}

		written++
	}

	if written != size {
		return fmt.Errorf("snapshot: map announced %d pairs but yielded %d", size, written)
	}

	if zw != nil {
		err = zw.Close()
		if err != nil {
			return fmt.Errorf("close lz4 frame: %w", err)
		}
	}

	err = bw.Flush()
	if err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}

	o.logger.Debug("snapshot written",
		"pairs", size,
		"codec", codecName(c),
		"lz4", o.compress,
		"bytes", counter.n,
	)

	return nil
}

func codecName[V any](c codec.Codec[V]) string {
	if c == nil {
		return "none"
	}

	return c.Name()
}

// encoder writes varints, remembering the first error.
type encoder struct {
	w       io.Writer
	scratch []byte
	err     error
}

func (e *encoder) uvarint(v uint64) {
	e.scratch = binary.AppendUvarint(e.scratch[:0], v)
	e.write(e.scratch)
}

func (e *encoder) varint(v int64) {
	e.scratch = binary.AppendVarint(e.scratch[:0], v)
	e.write(e.scratch)
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}

	_, e.err = e.w.Write(p)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)

	return n, err
}
