package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sumatoshi-tech/treemap/pkg/codec"
	"github.com/Sumatoshi-tech/treemap/pkg/treemap"
)

// SaveFile writes a snapshot of m to path. The file is written next to its
// destination and renamed into place, so readers never see a partial
// snapshot.
func SaveFile[V any](path string, m treemap.Readable[V], c codec.Codec[V], opts ...Option) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}

	if c == nil {
		err = WriteKeys(tmp, m, opts...)
	} else {
		err = Write(tmp, m, c, opts...)
	}

	closeErr := tmp.Close()

	if err != nil || closeErr != nil {
		return errors.Join(fmt.Errorf("write snapshot file: %w", errors.Join(err, closeErr)), os.Remove(tmp.Name()))
	}

	err = os.Rename(tmp.Name(), path)
	if err != nil {
		return errors.Join(fmt.Errorf("rename snapshot file: %w", err), os.Remove(tmp.Name()))
	}

	return nil
}

// LoadFile reads a snapshot from path. A nil codec reads only the keys,
// bound to the zero value.
func LoadFile[V any](path string, c codec.Codec[V], opts ...Option) (*treemap.Map[V], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer file.Close()

	var m *treemap.Map[V]

	if c == nil {
		var zero V

		m, err = ReadKeys(file, zero, opts...)
	} else {
		m, err = Read(file, c, opts...)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Info summarizes a snapshot file without rebuilding its map.
type Info struct {
	Header

	// Pairs is the number of pairs announced by the snapshot.
	Pairs int
	// Bytes is the size of the file.
	Bytes int64
}

// Inspect reads the header and pair count of the snapshot at path.
func Inspect(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open snapshot file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("stat snapshot file: %w", err)
	}

	hdr, _, size, err := openPayload(bufio.NewReader(file))
	if err != nil {
		return Info{}, err
	}

	return Info{Header: hdr, Pairs: size, Bytes: stat.Size()}, nil
}
