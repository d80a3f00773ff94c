// Package incremental holds the bookkeeping the scheduler needs to refine
// one light's image over many passes: the bit-reversed scanline schedule,
// the per-light state record, and the priority comparator between records.
package incremental

// NumLevels is N, the number of bit-reversal refinement passes per light and
// the height of one interleave tile.
const NumLevels = 32

const levelBits = 5 // log2(NumLevels)

// LineSchedule precomputes, for every refinement level, which scanlines
// within a 32-line tile have been produced and, for display-time
// resampling, which already-produced line is closest to any given row.
type LineSchedule struct {
	// LineMask[k] has bit i set iff scanline i (mod NumLevels) has been
	// written by some pass <= k.
	LineMask [NumLevels]uint32

	// ClosestLine[k][m] is the set bit of LineMask[k] numerically closest
	// to m, ties broken toward the lower index. m ranges over
	// [0, NumLevels] inclusive.
	ClosestLine [NumLevels][NumLevels + 1]uint32
}

// NewLineSchedule builds the tables once; callers should cache the result.
func NewLineSchedule() *LineSchedule {
	ls := &LineSchedule{}

	var mask uint32
	for k := 0; k < NumLevels; k++ {
		row := bitReverse(uint32(k))
		mask |= 1 << row
		ls.LineMask[k] = mask

		for m := 0; m <= NumLevels; m++ {
			ls.ClosestLine[k][m] = closestSetBit(mask, m)
		}
	}

	return ls
}

// bitReverse reverses the low levelBits bits of k, producing the scanline
// row written at refinement level k.
func bitReverse(k uint32) uint32 {
	var r uint32
	for i := 0; i < levelBits; i++ {
		r = (r << 1) | (k & 1)
		k >>= 1
	}
	return r
}

// closestSetBit returns the bit index in mask nearest to m, with ties broken
// toward the lower index. mask is assumed to have at least one bit set.
func closestSetBit(mask uint32, m int) uint32 {
	best := -1
	bestDist := 1 << 30

	for i := 0; i < NumLevels; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		d := i - m
		if d < 0 {
			d = -d
		}
		if d < bestDist || (d == bestDist && i < best) {
			bestDist = d
			best = i
		}
	}

	return uint32(best)
}
