package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Stored vectors are little-endian float32 blobs, the layout the engine's
// vector index reads directly from the hash field.

func vectorToBlob(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

func blobToVector(blob string) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		bits := binary.LittleEndian.Uint32([]byte(blob[i*4 : i*4+4]))
		vec[i] = math.Float32frombits(bits)
	}
	return vec, nil
}
