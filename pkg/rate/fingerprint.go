package rate

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/latticelabs/kinetic/pkg/lattice"
)

// Fingerprint digests a process id and the species observed at each
// local position into a table key. The engine treats keys as opaque;
// these helpers are the expected way for hosts to build them.
func Fingerprint(processID int, types []string) uint64 {
	d := xxhash.New()
	writeUint64(d, uint64(processID))
	for _, t := range types {
		_, _ = d.WriteString(t)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// BucketFingerprint digests a process id and the per-species occupation
// counts at each local position.
func BucketFingerprint(processID int, occupation []lattice.TypeBucket) uint64 {
	d := xxhash.New()
	writeUint64(d, uint64(processID))
	for _, b := range occupation {
		for i := 0; i < b.Size(); i++ {
			writeUint64(d, uint64(b.Get(i)))
		}
		_, _ = d.Write([]byte{0xff})
	}
	return d.Sum64()
}

func writeUint64(d *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = d.Write(buf[:])
}
