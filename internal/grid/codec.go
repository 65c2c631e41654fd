package grid

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
)

// MarshalBinary encodes the grid as gzip-compressed uvarint width and
// height followed by the cells bit-packed LSB first.
func (g *Grid) MarshalBinary() ([]byte, error) {
	payload := make([]byte, 0, 2*binary.MaxVarintLen64+(len(g.cells)+7)/8)
	payload = binary.AppendUvarint(payload, uint64(g.width))
	payload = binary.AppendUvarint(payload, uint64(g.height))
	payload = append(payload, packBits(g.cells)...)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a blob produced by MarshalBinary into g.
func (g *Grid) UnmarshalBinary(blob []byte) error {
	if len(blob) == 0 {
		return fmt.Errorf("%w: empty grid blob", ErrMalformed)
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	payload, err := io.ReadAll(gz)
	if err != nil {
		return fmt.Errorf("failed to decompress grid blob: %w", err)
	}

	r := bytes.NewReader(payload)
	w, err := binary.ReadUvarint(r)
	if err != nil {
		return fmt.Errorf("%w: width: %v", ErrMalformed, err)
	}
	h, err := binary.ReadUvarint(r)
	if err != nil {
		return fmt.Errorf("%w: height: %v", ErrMalformed, err)
	}
	if w > MaxCells || h > MaxCells {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}
	n, err := cellCount(int(w), int(h))
	if err != nil {
		return err
	}

	packed := payload[len(payload)-r.Len():]
	if len(packed) != (n+7)/8 {
		return fmt.Errorf("%w: %d packed bytes for %d cells", ErrMalformed, len(packed), n)
	}

	g.width = int(w)
	g.height = int(h)
	g.cells = unpackBits(packed, n)
	return nil
}

func packBits(cells []bool) []byte {
	out := make([]byte, (len(cells)+7)/8)
	for i, c := range cells {
		if c {
			out[i>>3] |= 1 << uint(i&7)
		}
	}
	return out
}

func unpackBits(packed []byte, n int) []bool {
	cells := make([]bool, n)
	for i := range cells {
		cells[i] = packed[i>>3]&(1<<uint(i&7)) != 0
	}
	return cells
}
