package sqlite

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	sqlite "modernc.org/sqlite"

	"github.com/contracthub/retrieval/core"
)

var (
	registerVecDistanceOnce sync.Once
	registerVecDistanceErr  error
)

// registerVecDistance makes vec_distance(a, b) available to connections
// opened after this call. Registration is process-wide and runs once; a
// failure is sticky and fails every subsequent Open.
func registerVecDistance() error {
	registerVecDistanceOnce.Do(func() {
		registerVecDistanceErr = sqlite.RegisterDeterministicScalarFunction("vec_distance", 2, vecDistanceImpl)
	})
	return registerVecDistanceErr
}

// vecDistanceImpl computes the cosine distance between two embedding BLOBs.
// NULL in, NULL out. A zero-magnitude vector yields the maximum distance
// rather than an error, matching the in-process scan.
func vecDistanceImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("vec_distance: expected 2 arguments, got %d", len(args))
	}
	a, err := asEmbedding(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asEmbedding(args[1])
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	return core.CosineDistance(a, b), nil
}

func asEmbedding(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return DecodeEmbedding(v)
	default:
		return nil, fmt.Errorf("vec_distance: unsupported argument type %T, want BLOB", arg)
	}
}

// EncodeEmbedding packs a vector into a little-endian float32 BLOB.
func EncodeEmbedding(vec []float32) []byte {
	bs := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(bs[i*4:], math.Float32bits(v))
	}
	return bs
}

// DecodeEmbedding unpacks a little-endian float32 BLOB into a vector.
func DecodeEmbedding(bs []byte) ([]float32, error) {
	if len(bs)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d", len(bs))
	}
	vec := make([]float32, len(bs)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(bs[i*4:]))
	}
	return vec, nil
}
