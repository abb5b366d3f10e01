package renderer

import (
	"fmt"
	"math/rand"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// Schedule selects how rows are distributed across workers
type Schedule int

const (
	// ScheduleStatic gives every worker one contiguous block of rows (fork-join)
	ScheduleStatic Schedule = iota
	// ScheduleQueue lets workers pull single rows from a shared queue
	ScheduleQueue
)

func (s Schedule) String() string {
	switch s {
	case ScheduleQueue:
		return "queue"
	default:
		return "static"
	}
}

// ParseSchedule converts a schedule name into a Schedule
func ParseSchedule(name string) (Schedule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "static":
		return ScheduleStatic, nil
	case "queue":
		return ScheduleQueue, nil
	default:
		return ScheduleStatic, fmt.Errorf("unknown schedule %q (want static or queue)", name)
	}
}

// ScheduleConfig controls the parallel render
type ScheduleConfig struct {
	Workers  int      // Number of parallel workers (0 = use CPU count)
	Seed     int64    // Base random seed (0 = seed from the clock)
	Schedule Schedule // Row distribution strategy
}

// DefaultScheduleConfig returns sensible default values
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Workers:  0,
		Seed:     0,
		Schedule: ScheduleStatic,
	}
}

// TiledRenderer renders a full image by splitting its rows across workers
type TiledRenderer struct {
	camera *Camera
	config ScheduleConfig
	logger core.Logger
}

// NewTiledRenderer creates a renderer for the given camera. The camera is
// already initialized, so its state is fixed before any worker starts.
func NewTiledRenderer(camera *Camera, config ScheduleConfig, logger core.Logger) *TiledRenderer {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	return &TiledRenderer{
		camera: camera,
		config: config,
		logger: logger,
	}
}

// Camera returns the camera used by the renderer
func (tr *TiledRenderer) Camera() *Camera {
	return tr.camera
}

// Render traces every pixel of the image and returns the averaged frame.
// The world is shared by all workers and must not be modified until Render
// returns.
func (tr *TiledRenderer) Render(world core.Shape) (*Frame, RenderStats) {
	startTime := time.Now()
	width := tr.camera.ImageWidth()
	height := tr.camera.ImageHeight()

	seed := tr.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if tr.logger != nil {
		tr.logger.Printf("Rendering %dx%d, %d samples per pixel, max depth %d (%d %s workers)\n",
			width, height, tr.camera.SamplesPerPixel(), tr.camera.MaxDepth(), tr.config.Workers, tr.config.Schedule)
	}

	progress := newProgressReporter(tr.logger, height)

	var pixels []core.Vec3
	var rowsPerWorker []int
	switch tr.config.Schedule {
	case ScheduleQueue:
		pixels, rowsPerWorker = tr.renderQueue(world, seed, progress)
	default:
		pixels, rowsPerWorker = tr.renderStatic(world, seed, progress)
	}
	progress.done()

	// Average the accumulated samples
	scale := tr.camera.PixelSamplesScale()
	for i := range pixels {
		pixels[i] = pixels[i].Multiply(scale)
	}

	frame := &Frame{Width: width, Height: height, Pixels: pixels}
	stats := RenderStats{
		TotalPixels:     width * height,
		TotalSamples:    width * height * tr.camera.SamplesPerPixel(),
		SamplesPerPixel: tr.camera.SamplesPerPixel(),
		Workers:         tr.config.Workers,
		RowsPerWorker:   rowsPerWorker,
		Schedule:        tr.config.Schedule,
		Seed:            seed,
		Elapsed:         time.Since(startTime),
	}
	return frame, stats
}

// renderStatic runs one goroutine per row range and concatenates their
// private buffers in worker order, which is also row order
func (tr *TiledRenderer) renderStatic(world core.Shape, seed int64, progress *progressReporter) ([]core.Vec3, []int) {
	width := tr.camera.ImageWidth()
	ranges := PartitionRows(tr.camera.ImageHeight(), tr.config.Workers)

	partialOutputs := make([][]core.Vec3, len(ranges))
	rowsPerWorker := make([]int, len(ranges))

	var wg sync.WaitGroup
	for i, rowRange := range ranges {
		partialOutputs[i] = make([]core.Vec3, width*rowRange.Len())
		rowsPerWorker[i] = rowRange.Len()

		wg.Add(1)
		go func(rowRange RowRange, output []core.Vec3) {
			defer wg.Done()
			tr.renderChunk(rowRange, output, world, seed, progress)
		}(rowRange, partialOutputs[i])
	}
	wg.Wait()

	pixels := make([]core.Vec3, 0, width*tr.camera.ImageHeight())
	for _, partialOutput := range partialOutputs {
		pixels = append(pixels, partialOutput...)
	}
	return pixels, rowsPerWorker
}

// renderChunk fills output with the unscaled pixel sums of rowRange
func (tr *TiledRenderer) renderChunk(rowRange RowRange, output []core.Vec3, world core.Shape, seed int64, progress *progressReporter) {
	width := tr.camera.ImageWidth()
	for j := rowRange.Start; j < rowRange.End; j++ {
		offset := (j - rowRange.Start) * width
		tr.renderRow(j, output[offset:offset+width], world, seed)
		progress.rowDone()
	}
}

// renderQueue feeds single rows through a WorkerPool. Each task writes a
// disjoint slice of the shared buffer, so no locking is needed.
func (tr *TiledRenderer) renderQueue(world core.Shape, seed int64, progress *progressReporter) ([]core.Vec3, []int) {
	width := tr.camera.ImageWidth()
	height := tr.camera.ImageHeight()
	pixels := make([]core.Vec3, width*height)

	pool := NewWorkerPool(tr.config.Workers, height, func(workerID int, task RowTask) {
		tr.renderRow(task.Row, task.Pixels, world, seed)
		progress.rowDone()
	})
	pool.Start()

	for j := 0; j < height; j++ {
		pool.SubmitTask(RowTask{Row: j, Pixels: pixels[j*width : (j+1)*width]})
	}

	rowsPerWorker := make([]int, pool.GetNumWorkers())
	for i := 0; i < height; i++ {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		rowsPerWorker[result.WorkerID]++
	}
	pool.Stop()

	return pixels, rowsPerWorker
}

// renderRow writes the unscaled sums for every pixel of row j
func (tr *TiledRenderer) renderRow(j int, row []core.Vec3, world core.Shape, seed int64) {
	random := newRowRandom(seed, j)
	for i := range row {
		row[i] = tr.camera.RenderPixel(i, j, world, random)
	}
}

// newRowRandom returns the generator owned by image row j. Streams depend
// only on (seed, row), so the image is identical for any worker count or
// schedule.
func newRowRandom(seed int64, row int) *rand.Rand {
	mixed := uint64(seed) ^ (uint64(row)+1)*0x9E3779B97F4A7C15
	return rand.New(rand.NewSource(int64(mixed)))
}
