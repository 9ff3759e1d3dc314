package ingest

import (
	"fmt"

	"github.com/minio/highwayhash"

	"github.com/tracescope/tracescope/accesspattern"
)

// chunkChecksumKey is a fixed 32-byte key for the HighwayHash checksum
// verifying each decoded trace chunk. It does not need to be secret — the
// checksum only needs to catch truncation/corruption, not resist a forger —
// so a constant key is fine here (unlike an auth use of HighwayHash).
var chunkChecksumKey = make([]byte, highwayhash.Size)

// VerifyChunk recomputes the HighwayHash of a decoded chunk and compares it
// against the checksum recorded alongside it in the trace. A mismatch is
// reported as an IngestError (spec.md §6: a corrupt chunk is an ingest
// failure, never a silently-wrong AccessRecord stream).
func VerifyChunk(handle accesspattern.HandleID, offset int64, decoder string, chunk []byte, want uint64) error {
	h, err := highwayhash.New64(chunkChecksumKey)
	if err != nil {
		return newIngestError(handle, offset, decoder, err)
	}
	h.Write(chunk)
	if got := h.Sum64(); got != want {
		return newIngestError(handle, offset, decoder,
			fmt.Errorf("checksum mismatch: want %x, got %x", want, got))
	}
	return nil
}
