package ingest

import (
	"context"
	"io"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// FileReader opens a trace file through github.com/grailbio/base/file,
// which means path may name anything that package has a registered scheme
// for. tracescope-profile registers no scheme beyond the local filesystem,
// so an s3:// URL is not readable from the CLI.
type FileReader struct {
	ctx   context.Context
	f     file.File
	codec Codec
	r     io.ReadCloser

	mmapped []byte
	osFile  *os.File
}

// OpenFile opens path for reading, preferring a local mmap when the scheme
// is a plain filesystem path (avoiding buffering the whole archive through
// file.File's generic Reader), and falling back to file.Open's streaming
// Reader for any other scheme (e.g. s3://).
func OpenFile(ctx context.Context, path string, codec Codec) (*FileReader, error) {
	fr := &FileReader{ctx: ctx, codec: codec}

	if osFile, err := os.Open(path); err == nil {
		fr.osFile = osFile
		mapped, mmapErr := mmapFile(osFile)
		if mmapErr == nil {
			fr.mmapped = mapped
			chunkReader, err := NewChunkReader(codec, newByteReader(mapped))
			if err != nil {
				return nil, errors.E(err, "ingest: opening chunk decoder for", path)
			}
			fr.r = chunkReader
			return fr, nil
		}
		log.Debug.Printf("ingest: mmap failed for %s, falling back to file.Open: %v", path, mmapErr)
		osFile.Close()
		fr.osFile = nil
	}

	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "ingest: opening trace", path)
	}
	fr.f = f
	chunkReader, err := NewChunkReader(codec, f.Reader(ctx))
	if err != nil {
		return nil, errors.E(err, "ingest: opening chunk decoder for", path)
	}
	fr.r = chunkReader
	return fr, nil
}

// Read implements io.Reader by delegating to the codec's decompressed
// stream.
func (fr *FileReader) Read(p []byte) (int, error) {
	return fr.r.Read(p)
}

// Close releases the mmap (if any), the decoder, and the underlying file
// handle.
func (fr *FileReader) Close() error {
	var errs []error
	if fr.r != nil {
		errs = append(errs, fr.r.Close())
	}
	if fr.mmapped != nil {
		errs = append(errs, munmapFile(fr.mmapped))
	}
	if fr.osFile != nil {
		errs = append(errs, fr.osFile.Close())
	}
	if fr.f != nil {
		errs = append(errs, fr.f.Close(fr.ctx))
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

type byteReader struct {
	b   []byte
	pos int
}

func newByteReader(b []byte) *byteReader { return &byteReader{b: b} }

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}
