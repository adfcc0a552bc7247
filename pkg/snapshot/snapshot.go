// Package snapshot persists ordered maps as a pair count followed by the
// pairs in key order, and rebuilds them in linear time.
//
// A snapshot starts with a six byte header: the magic "TMAP", a version
// byte and a flags byte. The payload, optionally wrapped in an LZ4 frame,
// holds the pair count as a uvarint followed by each pair: the zig-zag
// varint difference between the key and its predecessor (the first key is
// taken relative to zero), then the uvarint length and bytes of the encoded
// value. Key-only snapshots omit the values.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Sumatoshi-tech/treemap/pkg/rbtree"
)

// Version is the format version written by this package.
const Version byte = 1

// Header flags.
const (
	flagLZ4      byte = 1 << 0
	flagKeysOnly byte = 1 << 1

	knownFlags = flagLZ4 | flagKeysOnly
)

const (
	magic      = "TMAP"
	headerSize = len(magic) + 2

	// maxValueLen bounds a single encoded value.
	maxValueLen = 1 << 30
)

var (
	// ErrBadMagic is returned when the input does not start with a snapshot header.
	ErrBadMagic = errors.New("snapshot: bad magic")
	// ErrUnsupportedVersion is returned for snapshots written by a newer format.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	// ErrCorrupt is returned when the payload cannot be decoded.
	ErrCorrupt = errors.New("snapshot: corrupt payload")
	// ErrNoValues is returned when values are requested from a key-only snapshot.
	ErrNoValues = errors.New("snapshot: key-only snapshot has no values")
)

// Header describes a snapshot.
type Header struct {
	Version    byte
	Compressed bool
	KeysOnly   bool
}

func (h Header) flags() byte {
	var flags byte

	if h.Compressed {
		flags |= flagLZ4
	}

	if h.KeysOnly {
		flags |= flagKeysOnly
	}

	return flags
}

func (h Header) bytes() []byte {
	buf := make([]byte, 0, headerSize)
	buf = append(buf, magic...)

	return append(buf, h.Version, h.flags())
}

// ReadHeader reads and validates the snapshot header.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [headerSize]byte

	_, err := io.ReadFull(r, buf[:])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%w: input too short", ErrBadMagic)
		}

		return Header{}, fmt.Errorf("read header: %w", err)
	}

	if string(buf[:len(magic)]) != magic {
		return Header{}, fmt.Errorf("%w: %q", ErrBadMagic, buf[:len(magic)])
	}

	version, flags := buf[len(magic)], buf[len(magic)+1]
	if version == 0 || version > Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	if flags&^knownFlags != 0 {
		return Header{}, fmt.Errorf("%w: unknown flags %#x", ErrCorrupt, flags)
	}

	return Header{
		Version:    version,
		Compressed: flags&flagLZ4 != 0,
		KeysOnly:   flags&flagKeysOnly != 0,
	}, nil
}

// Option configures reading and writing.
type Option func(*options)

type options struct {
	compress bool
	cmp      rbtree.Comparator
	logger   *slog.Logger
}

// WithLZ4 wraps the payload in an LZ4 frame when writing. Readers detect
// compression from the header.
func WithLZ4() Option {
	return func(o *options) {
		o.compress = true
	}
}

// WithComparator sets the ordering of the rebuilt map. It must match the
// ordering of the map the snapshot was written from.
func WithComparator(c rbtree.Comparator) Option {
	return func(o *options) {
		o.cmp = c
	}
}

// WithLogger sets the logger receiving debug records; slog.Default is used
// otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) options {
	o := options{}

	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// noEOF turns a clean end of input in the middle of a record into
// io.ErrUnexpectedEOF.
func noEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}

	return err
}
