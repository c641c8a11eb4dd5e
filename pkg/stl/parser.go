package stl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/philipparndt/stlsplit/pkg/geometry"
)

const (
	binaryHeaderSize = 80
	binaryRecordSize = 50
)

// Parse reads an STL file and returns a single Model.
// ASCII and binary encodings are detected automatically; multi-solid
// ASCII files are merged in file order.
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader is Parse for an already opened stream
func ParseReader(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}

	if isBinary(data) {
		return parseBinary(data)
	}

	solids, err := ParseSolids(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return Merge(solids), nil
}

// isBinary detects binary STL. A binary header may itself start with
// "solid", so the declared facet count is checked against the size.
func isBinary(data []byte) bool {
	if len(data) < binaryHeaderSize+4 {
		return false
	}

	count := binary.LittleEndian.Uint32(data[binaryHeaderSize : binaryHeaderSize+4])
	expected := uint64(binaryHeaderSize+4) + uint64(count)*binaryRecordSize
	if uint64(len(data)) == expected {
		return true
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return !bytes.HasPrefix(trimmed, []byte("solid"))
}

// parseBinary decodes the 80-byte header, the facet count and 50-byte records
func parseBinary(data []byte) (*Model, error) {
	if len(data) < binaryHeaderSize+4 {
		return nil, fmt.Errorf("binary STL too short: %d bytes", len(data))
	}

	model := NewModel(string(bytes.TrimRight(data[:binaryHeaderSize], "\x00 ")))

	count := int(binary.LittleEndian.Uint32(data[binaryHeaderSize : binaryHeaderSize+4]))
	body := data[binaryHeaderSize+4:]
	if len(body) < count*binaryRecordSize {
		return nil, fmt.Errorf("binary STL truncated: header declares %d triangles, data holds %d",
			count, len(body)/binaryRecordSize)
	}

	model.Triangles = make([]geometry.Triangle, 0, count)
	for i := 0; i < count; i++ {
		rec := body[i*binaryRecordSize : (i+1)*binaryRecordSize]
		model.AddTriangle(geometry.NewTriangle(
			readVector(rec[0:12]),
			readVector(rec[12:24]),
			readVector(rec[24:36]),
			readVector(rec[36:48]),
		))
	}

	return model, nil
}

func readVector(b []byte) geometry.Vector3 {
	f := func(off int) float64 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4])))
	}
	return geometry.NewVector3(f(0), f(4), f(8))
}
