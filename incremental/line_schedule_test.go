package incremental

import "testing"

func TestLineMaskMonotone(t *testing.T) {
	ls := NewLineSchedule()
	for k := 1; k < NumLevels; k++ {
		prev, cur := ls.LineMask[k-1], ls.LineMask[k]
		if prev&cur != prev {
			t.Fatalf("level %d: LineMask[%d]=%032b is not a subset of LineMask[%d]=%032b", k, k-1, prev, k, cur)
		}
		if prev == cur {
			t.Fatalf("level %d: LineMask did not grow", k)
		}
	}
	if ls.LineMask[NumLevels-1] != 0xFFFFFFFF {
		t.Fatalf("final level should have all bits set, got %032b", ls.LineMask[NumLevels-1])
	}
}

func TestClosestLineIsArgmin(t *testing.T) {
	ls := NewLineSchedule()
	for k := 0; k < NumLevels; k++ {
		for m := 0; m <= NumLevels; m++ {
			got := ls.ClosestLine[k][m]
			bestDist := -1
			bestIdx := -1
			for i := 0; i < NumLevels; i++ {
				if ls.LineMask[k]&(1<<uint(i)) == 0 {
					continue
				}
				d := i - m
				if d < 0 {
					d = -d
				}
				if bestDist == -1 || d < bestDist || (d == bestDist && i < bestIdx) {
					bestDist = d
					bestIdx = i
				}
			}
			if int(got) != bestIdx {
				t.Fatalf("k=%d m=%d: got %d want %d", k, m, got, bestIdx)
			}
		}
	}
}

func TestRefinementOrderingBitReversal(t *testing.T) {
	ls := NewLineSchedule()

	expectRow := func(k int, row uint32) {
		if ls.LineMask[k]&(1<<row) == 0 {
			t.Fatalf("level %d should include row %d, mask=%032b", k, row, ls.LineMask[k])
		}
	}

	expectRow(0, 0)
	expectRow(1, 16)
	expectRow(2, 8)
	expectRow(3, 24)
	expectRow(4, 4)
	expectRow(5, 20)
	expectRow(6, 12)
	expectRow(7, 28)
}
