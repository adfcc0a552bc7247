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

// Read rebuilds a map from a snapshot written by Write, decoding values
// with c. Pairs are streamed straight into the bulk builder.
func Read[V any](r io.Reader, c codec.Codec[V], opts ...Option) (*treemap.Map[V], error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil value codec", codec.ErrUnknownCodec)
	}

	var zero V

	return read(r, c, zero, applyOptions(opts))
}

// ReadKeys rebuilds a map from the keys of any snapshot, binding every key
// to defaultValue. Stored values are skipped.
func ReadKeys[V any](r io.Reader, defaultValue V, opts ...Option) (*treemap.Map[V], error) {
	return read[V](r, nil, defaultValue, applyOptions(opts))
}

func read[V any](r io.Reader, c codec.Codec[V], defaultValue V, o options) (*treemap.Map[V], error) {
	hdr, payload, size, err := openPayload(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}

	if c != nil && hdr.KeysOnly {
		return nil, ErrNoValues
	}

	dec := &decoder[V]{
		r:            payload,
		codec:        c,
		keysOnly:     hdr.KeysOnly,
		defaultValue: defaultValue,
	}

	m, err := treemap.Build[V](o.cmp, size, dec)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	o.logger.Debug("snapshot read",
		"pairs", size,
		"codec", codecName(c),
		"lz4", hdr.Compressed,
		"keys_only", hdr.KeysOnly,
	)

	return m, nil
}

// openPayload reads the header and the pair count, returning a reader
// positioned at the first pair.
func openPayload(br *bufio.Reader) (Header, *bufio.Reader, int, error) {
	hdr, err := ReadHeader(br)
	if err != nil {
		return Header{}, nil, 0, err
	}

	payload := br
	if hdr.Compressed {
		payload = bufio.NewReader(lz4.NewReader(br))
	}

	rawSize, err := binary.ReadUvarint(payload)
	if err != nil {
		return Header{}, nil, 0, fmt.Errorf("%w: read size: %w", ErrCorrupt, noEOF(err))
	}

	size, ok := safeconv.Uint64ToInt(rawSize)
	if !ok {
		return Header{}, nil, 0, fmt.Errorf("%w: size %d", ErrCorrupt, rawSize)
	}

	return hdr, payload, size, nil
}

// decoder streams pairs out of a snapshot payload. It implements
// rbtree.Source; io.EOF before a key means the payload ended early.
type decoder[V any] struct {
	r            *bufio.Reader
	codec        codec.Codec[V]
	keysOnly     bool
	defaultValue V
	prev         int
}

func (d *decoder[V]) Next() (int, V, error) {
	var zero V

	delta, err := binary.ReadVarint(d.r)
	if err != nil {
		return 0, zero, err
	}

	key := d.prev + int(delta)
	d.prev = key

	if d.keysOnly {
		return key, d.defaultValue, nil
	}

	length, err := binary.ReadUvarint(d.r)
	if err != nil {
		return 0, zero, fmt.Errorf("value length of key %d: %w", key, noEOF(err))
	}

	if length > maxValueLen {
		return 0, zero, fmt.Errorf("%w: value of key %d is %d bytes", ErrCorrupt, key, length)
	}

	if d.codec == nil {
		_, err = d.r.Discard(int(length))
		if err != nil {
			return 0, zero, fmt.Errorf("skip value of key %d: %w", key, noEOF(err))
		}

		return key, d.defaultValue, nil
	}

	data := make([]byte, length)

	_, err = io.ReadFull(d.r, data)
	if err != nil {
		return 0, zero, fmt.Errorf("value of key %d: %w", key, noEOF(err))
	}

	value, err := d.codec.Unmarshal(data)
	if err != nil {
		return 0, zero, fmt.Errorf("decode value of key %d: %w", key, err)
	}

	return key, value, nil
}
