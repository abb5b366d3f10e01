package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of camera samples taken
	SamplesPerPixel int           // Samples taken for each pixel
	Workers         int           // Number of render goroutines
	RowsPerWorker   []int         // Rows each worker rendered, indexed by worker
	Schedule        Schedule      // Scheduling strategy used
	Seed            int64         // Base seed for the per-row generators
	Elapsed         time.Duration // Wall-clock render time
}

// SamplesPerSecond returns the sampling throughput of the render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Elapsed.Seconds()
}
