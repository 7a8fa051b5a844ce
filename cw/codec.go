package cw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// Model file layout, all values little-endian:
//
//	float64       confidence
//	uint64        n
//	n x float64   mean
//	uint64        n
//	n x float64   variance
//
// There is no magic number, version or checksum.
const (
	valueSize  = 8
	lengthSize = 8

	fileMode = 0o644
)

var byteOrder = binary.LittleEndian

// MarshalBinary implements encoding.BinaryMarshaler. It refuses to encode
// a model that UnmarshalBinary would reject.
func (m *Model) MarshalBinary() ([]byte, error) {
	if err := validState(m.confidence, m.mean, m.variance); err != nil {
		return nil, err
	}

	size := valueSize + 2*lengthSize + valueSize*(len(m.mean)+len(m.variance))
	buf := make([]byte, 0, size)

	buf = byteOrder.AppendUint64(buf, math.Float64bits(m.confidence))
	buf = appendVector(buf, m.mean)
	buf = appendVector(buf, m.variance)

	return buf, nil
}

func appendVector(buf []byte, v []float64) []byte {
	buf = byteOrder.AppendUint64(buf, uint64(len(v)))
	for _, x := range v {
		buf = byteOrder.AppendUint64(buf, math.Float64bits(x))
	}
	return buf
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The receiver is
// only modified when data is a complete, valid model.
func (m *Model) UnmarshalBinary(data []byte) error {
	d := decoder{data: data}

	conf := d.readFloat64("confidence")
	mean := d.vector("mean")
	variance := d.vector("variance")

	if d.err != nil {
		return d.err
	}
	if rest := len(d.data) - d.off; rest != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrFormat, rest)
	}
	if err := validState(conf, mean, variance); err != nil {
		return err
	}

	m.confidence = conf
	m.mean = mean
	m.variance = variance
	m.nUpdates = 0
	m.nSkipped = 0
	return nil
}

func validState(conf float64, mean, variance []float64) error {
	if err := validConfidence(conf); err != nil {
		return fmt.Errorf("%w: confidence %v", ErrFormat, conf)
	}
	if len(mean) != len(variance) {
		return fmt.Errorf("%w: mean length %d != variance length %d", ErrFormat, len(mean), len(variance))
	}
	for i, v := range variance {
		if !(v > 0) {
			return fmt.Errorf("%w: variance[%d] = %v is not positive", ErrFormat, i, v)
		}
	}
	return nil
}

type decoder struct {
	data []byte
	off  int
	err  error
}

func (d *decoder) readUint64(name string) uint64 {
	if d.err != nil {
		return 0
	}
	if len(d.data)-d.off < 8 {
		d.err = fmt.Errorf("%w: truncated %s at offset %d", ErrFormat, name, d.off)
		return 0
	}
	v := byteOrder.Uint64(d.data[d.off:])
	d.off += 8
	return v
}

func (d *decoder) readFloat64(name string) float64 {
	return math.Float64frombits(d.readUint64(name))
}

func (d *decoder) vector(name string) []float64 {
	n := d.readUint64(name + " length")
	if d.err != nil {
		return nil
	}
	// Checked before allocating so a corrupt length cannot exhaust memory.
	if n > uint64(len(d.data)-d.off)/valueSize {
		d.err = fmt.Errorf("%w: %s declares %d values, only %d bytes remain",
			ErrFormat, name, n, len(d.data)-d.off)
		return nil
	}
	v := make([]float64, n)
	for i := range v {
		v[i] = d.readFloat64(name)
	}
	return v
}

// Save writes the model in the binary model format.
func (m *Model) Save(w io.Writer) error {
	data, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Load reads a model written by Save. The whole stream must be one model.
func Load(r io.Reader) (*Model, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	m := &Model{}
	if err := m.UnmarshalBinary(buf.Bytes()); err != nil {
		return nil, err
	}
	return m, nil
}

// SaveFile writes the model to path. The file is written under a temporary
// name and renamed into place, so a failed save leaves no partial model.
func (m *Model) SaveFile(path string) error {
	data, err := m.MarshalBinary()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: unable to open %s: %w", ErrIO, path, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", ErrIO, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming into %s: %w", ErrIO, path, err)
	}
	return nil
}

// LoadFile reads a model from path.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to open %s: %w", ErrIO, path, err)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return m, nil
}
