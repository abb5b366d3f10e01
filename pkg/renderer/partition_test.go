package renderer

import (
	"testing"
)

func TestPartitionRows_RemainderGoesToLastWorker(t *testing.T) {
	ranges := PartitionRows(10, 3)
	expected := []RowRange{{0, 3}, {3, 6}, {6, 10}}

	if len(ranges) != len(expected) {
		t.Fatalf("Expected %d ranges, got %d", len(expected), len(ranges))
	}
	for i := range expected {
		if ranges[i] != expected[i] {
			t.Errorf("Range %d: expected %v, got %v", i, expected[i], ranges[i])
		}
	}
}

func TestPartitionRows_CoversEveryRowOnce(t *testing.T) {
	for _, height := range []int{1, 2, 7, 10, 64, 225} {
		for workers := 1; workers <= height; workers++ {
			ranges := PartitionRows(height, workers)
			if len(ranges) != workers {
				t.Fatalf("height=%d workers=%d: expected %d ranges, got %d", height, workers, workers, len(ranges))
			}

			// Contiguous ascending ranges starting at zero cover each row exactly once
			next := 0
			for i, r := range ranges {
				if r.Start != next {
					t.Fatalf("height=%d workers=%d: range %d starts at %d, want %d", height, workers, i, r.Start, next)
				}
				if r.Len() < 0 {
					t.Fatalf("height=%d workers=%d: range %d has negative length", height, workers, i)
				}
				next = r.End
			}
			if next != height {
				t.Fatalf("height=%d workers=%d: ranges end at %d, want %d", height, workers, next, height)
			}
		}
	}
}

func TestPartitionRows_MoreWorkersThanRows(t *testing.T) {
	ranges := PartitionRows(3, 5)
	if len(ranges) != 5 {
		t.Fatalf("Expected 5 ranges, got %d", len(ranges))
	}

	total := 0
	for i, r := range ranges[:4] {
		if r.Len() != 0 {
			t.Errorf("Range %d should be empty, got %v", i, r)
		}
	}
	for _, r := range ranges {
		total += r.Len()
	}
	if ranges[4] != (RowRange{0, 3}) {
		t.Errorf("Last worker should take every row, got %v", ranges[4])
	}
	if total != 3 {
		t.Errorf("Expected 3 rows in total, got %d", total)
	}
}

func TestPartitionRows_SingleAndInvalidWorkerCount(t *testing.T) {
	for _, workers := range []int{1, 0, -4} {
		ranges := PartitionRows(8, workers)
		if len(ranges) != 1 || ranges[0] != (RowRange{0, 8}) {
			t.Errorf("workers=%d: expected single range [0,8), got %v", workers, ranges)
		}
	}
}
