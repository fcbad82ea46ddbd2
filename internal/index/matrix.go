package index

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/futig/fundfacts/internal/entity"
)

// Matrix file layout, little-endian:
//
//	magic   [8]byte  "FFEMB\x00\x00\x01"
//	rows    uint32
//	dim     uint32
//	values  rows*dim float32, row-major
var matrixMagic = [8]byte{'F', 'F', 'E', 'M', 'B', 0, 0, 1}

const matrixHeaderSize = 16

func writeMatrix(w io.Writer, rows [][]float32) error {
	dim := 0
	if len(rows) > 0 {
		dim = len(rows[0])
	}

	bw := bufio.NewWriter(w)
	header := make([]byte, matrixHeaderSize)
	copy(header, matrixMagic[:])
	binary.LittleEndian.PutUint32(header[8:], uint32(len(rows)))
	binary.LittleEndian.PutUint32(header[12:], uint32(dim))
	if _, err := bw.Write(header); err != nil {
		return err
	}

	buf := make([]byte, 4*dim)
	for i, row := range rows {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has %d values, expected %d", entity.ErrDimensionMismatch, i, len(row), dim)
		}
		EncodeVector(buf, row)
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func readMatrix(data []byte) ([][]float32, error) {
	if len(data) < matrixHeaderSize || !bytes.Equal(data[:8], matrixMagic[:]) {
		return nil, fmt.Errorf("%w: bad embedding matrix header", entity.ErrIndexCorrupt)
	}

	rows := int(binary.LittleEndian.Uint32(data[8:]))
	dim := int(binary.LittleEndian.Uint32(data[12:]))
	body := len(data) - matrixHeaderSize
	// checked by division: rows*dim*4 overflows for forged headers
	if !matrixFits(rows, dim, body) {
		return nil, fmt.Errorf("%w: embedding matrix has %d body bytes for %d rows of dimension %d",
			entity.ErrIndexCorrupt, body, rows, dim)
	}

	matrix := make([][]float32, rows)
	values := data[matrixHeaderSize:]
	for i := range matrix {
		matrix[i] = DecodeVector(values[i*dim*4 : (i+1)*dim*4])
	}
	return matrix, nil
}

func matrixFits(rows, dim, body int) bool {
	if body%4 != 0 {
		return false
	}
	if rows == 0 || dim == 0 {
		return rows == 0 && body == 0
	}
	values := body / 4
	return values%dim == 0 && values/dim == rows
}

// EncodeVector writes v into buf as little-endian float32 values. buf must hold 4*len(v) bytes.
func EncodeVector(buf []byte, v []float32) {
	for j, f := range v {
		binary.LittleEndian.PutUint32(buf[j*4:], math.Float32bits(f))
	}
}

// VectorBytes returns the little-endian float32 encoding of v.
func VectorBytes(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	EncodeVector(buf, v)
	return buf
}

func DecodeVector(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for j := range v {
		v[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4:]))
	}
	return v
}
