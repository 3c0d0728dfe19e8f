package utils

import (
	"encoding/binary"

	sha256simd "github.com/minio/sha256-simd"
)

// Fingerprint digests the shape and every base of the parameter set, so two
// parties can check they derived the same bases without comparing points.
func (p *BHPParams) Fingerprint() [32]byte {
	h := sha256simd.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(p.NumWindows))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(p.WindowSize))
	h.Write(buf[:])
	for _, row := range p.Bases {
		for j := 0; j < p.WindowSize && j < len(row); j++ {
			b := row[j].Bytes()
			h.Write(b[:])
		}
	}
	b := p.RandomBase.Bytes()
	h.Write(b[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
