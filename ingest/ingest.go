// Package ingest adapts a decoded OTF2 trace stream into
// accesspattern.AccessRecord values, per spec.md §4.5 and §6. It owns
// everything the classifier doesn't want to know about: where the bytes
// come from, how they're compressed, and whether the stream is intact.
package ingest

import (
	"io"

	"github.com/grailbio/base/errors"

	"github.com/tracescope/tracescope/accesspattern"
)

// Event is one raw trace event, already demultiplexed to a single handle,
// before it is turned into an AccessRecord. Meta is true for seek/open/
// close/stat operations.
type Event struct {
	Handle   accesspattern.HandleID
	FilePath string
	BeginTS  uint64
	EndTS    uint64
	FPos     uint64
	Size     uint64
	Transfer uint64 // ticks actually spent transferring, may differ from EndTS-BeginTS
	Meta     bool
}

// ToAccessRecord maps one Event to the accesspattern record it denotes, per
// the ingest contract in spec.md §4.5: end_time = completion_ts, start_time
// = begin_ts, duration = transfer_ticks.
func (e Event) ToAccessRecord() accesspattern.AccessRecord {
	return accesspattern.AccessRecord{
		StartTime: e.BeginTS,
		EndTime:   e.EndTS,
		FPos:      accesspattern.FPos(e.FPos),
		Size:      e.Size,
		Duration:  e.Transfer,
		IsMeta:    e.Meta,
	}
}

// Reader yields trace events one at a time, in completion order per handle.
type Reader interface {
	Next() (Event, error)
	io.Closer
}

// IngestError reports a problem decoding or validating one trace event; it
// carries enough context to be logged and attributed to a single handle,
// per spec.md §7's "abort only that handle" propagation policy.
type IngestError struct {
	Handle accesspattern.HandleID
	Offset int64
	Decoder string
	cause   error
}

func (e *IngestError) Error() string {
	return errors.E(e.cause, "ingest", e.Decoder,
		"handle", e.Handle, "offset", e.Offset).Error()
}

func (e *IngestError) Unwrap() error { return e.cause }

func newIngestError(handle accesspattern.HandleID, offset int64, decoder string, cause error) *IngestError {
	return &IngestError{Handle: handle, Offset: offset, Decoder: decoder, cause: cause}
}

// lastEndTime tracks, per handle, the EndTime of the last non-meta record
// delivered, so out-of-order completions can be caught per spec.md §4.5's
// "records for one handle must be delivered in completion order" contract.
type orderGuard struct {
	lastEndTime map[accesspattern.HandleID]uint64
}

func newOrderGuard() *orderGuard {
	return &orderGuard{lastEndTime: make(map[accesspattern.HandleID]uint64)}
}

// Check verifies ev doesn't complete before the last record seen for its
// handle. Meta records do not participate in (or reset) the ordering
// constraint: the contract only binds non-meta completions.
func (g *orderGuard) Check(ev Event) error {
	if ev.Meta {
		return nil
	}
	if last, ok := g.lastEndTime[ev.Handle]; ok && ev.EndTS < last {
		return newIngestError(ev.Handle, int64(ev.EndTS), "order-guard",
			errors.E("ingest: out-of-order completion for handle"))
	}
	g.lastEndTime[ev.Handle] = ev.EndTS
	return nil
}

// CollectHandle drains r, grouping accepted events by handle, until Next
// returns io.EOF or a non-recoverable error. An IngestError for one handle
// stops that handle's accumulation but CollectHandle keeps reading events
// for the others, matching spec.md §7.
func CollectHandle(r Reader) (map[accesspattern.HandleID][]accesspattern.AccessRecord, []*IngestError) {
	byHandle := make(map[accesspattern.HandleID][]accesspattern.AccessRecord)
	aborted := make(map[accesspattern.HandleID]bool)
	var errs []*IngestError
	guard := newOrderGuard()

	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if ie, ok := err.(*IngestError); ok {
				aborted[ie.Handle] = true
				errs = append(errs, ie)
				continue
			}
			errs = append(errs, newIngestError(0, -1, "reader", err))
			break
		}
		if aborted[ev.Handle] {
			continue
		}
		if err := guard.Check(ev); err != nil {
			ie := err.(*IngestError)
			aborted[ev.Handle] = true
			errs = append(errs, ie)
			continue
		}
		byHandle[ev.Handle] = append(byHandle[ev.Handle], ev.ToAccessRecord())
	}
	return byHandle, errs
}
