package accesspattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowSlidesAndWraps(t *testing.T) {
	var w window
	recs := make([]AccessRecord, 5)
	for i := range recs {
		recs[i] = AccessRecord{FPos: FPos(i)}
	}
	for _, r := range recs {
		w.push(r)
	}
	// Only the last 3 pushes survive: records 2, 3, 4.
	a, b, c := w.asTriad()
	assert.Equal(t, FPos(2), a.FPos)
	assert.Equal(t, FPos(3), b.FPos)
	assert.Equal(t, FPos(4), c.FPos)
	assert.Equal(t, FPos(4), w.at(0).FPos)
	assert.Equal(t, FPos(3), w.at(-1).FPos)
	assert.Equal(t, FPos(2), w.at(-2).FPos)
}
