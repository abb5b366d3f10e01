package renderer

// RowRange is the half-open span of image rows [Start, End)
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range
func (r RowRange) Len() int {
	return r.End - r.Start
}

// PartitionRows splits [0, height) into one contiguous range per worker.
// Every worker gets height/workers rows and the last one also takes the
// remainder. More workers than rows leaves the leading workers empty.
func PartitionRows(height, workers int) []RowRange {
	if workers < 1 {
		workers = 1
	}
	if height < 0 {
		height = 0
	}

	rowsPerWorker := height / workers
	ranges := make([]RowRange, workers)
	for i := range ranges {
		start := i * rowsPerWorker
		end := (i + 1) * rowsPerWorker
		if i == workers-1 {
			end = height
		}
		ranges[i] = RowRange{Start: start, End: end}
	}
	return ranges
}
