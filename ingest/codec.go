package ingest

import (
	"compress/zlib"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/yasushi-saito/zlibng"
)

// Codec names a chunk decompression scheme. OTF2 anchor/event chunks are
// written DEFLATE- or zlib-ng-compressed on disk; -codec picks which
// decoder path the FileReader uses.
type Codec string

const (
	CodecZlib   Codec = "zlib"
	CodecZlibNG Codec = "zlibng"
	CodecZstd   Codec = "zstd"
	CodecGzip   Codec = "gzip"
)

// NewChunkReader wraps raw with the decompressor named by codec.
func NewChunkReader(codec Codec, raw io.Reader) (io.ReadCloser, error) {
	switch codec {
	case CodecZlib:
		r, err := zlib.NewReader(raw)
		if err != nil {
			return nil, err
		}
		return r, nil
	case CodecGzip:
		r, err := gzip.NewReader(raw)
		if err != nil {
			return nil, err
		}
		return r, nil
	case CodecZlibNG:
		return zlibng.NewReader(raw)
	case CodecZstd:
		dec, err := zstd.NewReader(raw)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("ingest: unknown codec %q", codec)
	}
}

// snappyScratchReader and snappyScratchWriter wrap the handle-local
// access-vector spill cache (spillcache.go): snappy trades a worse
// compression ratio than zstd for much lower CPU per record, which matters
// more here since every handle's vector is written through it when spilling
// is enabled.
func snappyScratchReader(r io.Reader) io.Reader { return snappy.NewReader(r) }

func snappyScratchWriter(w io.Writer) *snappy.Writer { return snappy.NewBufferedWriter(w) }
