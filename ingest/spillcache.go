package ingest

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/grailbio/base/errors"

	"github.com/tracescope/tracescope/accesspattern"
)

// SpillCache writes one handle's access vector to scratch space,
// snappy-compressed (favored over zstd here for lower CPU per access record,
// since this path runs once per handle rather than once per trace).
// -spill-dir selects the directory. There is no size threshold: with a
// directory set, tracescope-profile spills every non-empty handle, and it
// keeps every handle's vector resident either way.
type SpillCache struct {
	dir string
}

// NewSpillCache returns a cache rooted at dir. An empty dir disables
// spilling; callers should check Enabled before calling Spill.
func NewSpillCache(dir string) *SpillCache {
	return &SpillCache{dir: dir}
}

// Enabled reports whether spilling is configured.
func (c *SpillCache) Enabled() bool { return c.dir != "" }

func (c *SpillCache) pathFor(handle accesspattern.HandleID) string {
	return filepath.Join(c.dir, "handle-"+strconv.FormatUint(uint64(handle), 10)+".spill")
}

// Spill snappy-compresses records to a scratch file for handle, returning
// the path a later Load call needs.
func (c *SpillCache) Spill(handle accesspattern.HandleID, records []accesspattern.AccessRecord) (string, error) {
	path := c.pathFor(handle)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.E(err, "ingest: creating spill file", path)
	}
	defer f.Close()

	w := snappyScratchWriter(bufio.NewWriter(f))
	for _, r := range records {
		if err := writeRecord(w, r); err != nil {
			return "", errors.E(err, "ingest: spilling handle", handle)
		}
	}
	if err := w.Close(); err != nil {
		return "", errors.E(err, "ingest: closing spill file", path)
	}
	return path, nil
}

// Load reads back a spill file written by Spill.
func (c *SpillCache) Load(path string) ([]accesspattern.AccessRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, "ingest: opening spill file", path)
	}
	defer f.Close()

	r := snappyScratchReader(bufio.NewReader(f))
	var records []accesspattern.AccessRecord
	for {
		rec, err := readRecord(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.E(err, "ingest: reading spill file", path)
		}
		records = append(records, rec)
	}
	return records, nil
}

func writeRecord(w io.Writer, r accesspattern.AccessRecord) error {
	var buf [41]byte
	binary.LittleEndian.PutUint64(buf[0:8], r.StartTime)
	binary.LittleEndian.PutUint64(buf[8:16], r.EndTime)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(r.FPos))
	binary.LittleEndian.PutUint64(buf[24:32], r.Size)
	binary.LittleEndian.PutUint64(buf[32:40], r.Duration)
	if r.IsMeta {
		buf[40] = 1
	}
	_, err := w.Write(buf[:])
	return err
}

func readRecord(r io.Reader) (accesspattern.AccessRecord, error) {
	var buf [41]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return accesspattern.AccessRecord{}, err
	}
	return accesspattern.AccessRecord{
		StartTime: binary.LittleEndian.Uint64(buf[0:8]),
		EndTime:   binary.LittleEndian.Uint64(buf[8:16]),
		FPos:      accesspattern.FPos(binary.LittleEndian.Uint64(buf[16:24])),
		Size:      binary.LittleEndian.Uint64(buf[24:32]),
		Duration:  binary.LittleEndian.Uint64(buf[32:40]),
		IsMeta:    buf[40] == 1,
	}, nil
}
