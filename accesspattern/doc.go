/*Package accesspattern classifies the sequence of I/O operations performed
through a single open-file handle into consecutive time intervals, each
labeled with one of four access patterns: NONE, CONTIGUOUS, STRIDED, or
RANDOM.

The package is organized bottom-up:
  - AccessRecord is the immutable value type for one completed I/O operation.
  - window is a fixed-capacity ring buffer over the last three non-meta
    records, used by the streaming classifier to look backward without
    retaining the whole sequence.
  - Classify3 is the pure triad classifier.
  - Local classifies one handle's sequence; Global merges several handles'
    sequences for one file and reuses Local.

Everything here is a pure function of its input: no global state is read or
mutated, so handles may be classified concurrently.
*/
package accesspattern

// NRAccessesThreshold is the minimum number of non-meta accesses a handle
// must have performed before any access pattern other than NONE may be
// reported.
const NRAccessesThreshold = 3

// AlmostEqualThreshold is reserved for a future "nearly equal" (95%)
// variant of the classifier (EQUALLY_SIZED-style patterns). It is not used
// by the four-label model implemented here.
const AlmostEqualThreshold = 0.95
