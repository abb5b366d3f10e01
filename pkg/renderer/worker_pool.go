package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// RowTask represents one image row handed to the worker pool
type RowTask struct {
	Row    int         // Image row to render
	Pixels []core.Vec3 // Destination slice for the row; no other task shares it
}

// RowResult reports a completed row back to the coordinator
type RowResult struct {
	Row      int
	WorkerID int
}

// RowRenderFunc renders a single task on behalf of a worker
type RowRenderFunc func(workerID int, task RowTask)

// WorkerPool serves rows from a shared queue to a fixed set of workers
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual row rendering tasks
type Worker struct {
	ID          int
	render      RowRenderFunc
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Both queues are buffered for maxTasks so that submitting every task up
// front never blocks.
func NewWorkerPool(numWorkers, maxTasks int, render RowRenderFunc) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, maxTasks),
		resultQueue: make(chan RowResult, maxTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			render:      render,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.render(w.ID, task)
		w.resultQueue <- RowResult{Row: task.Row, WorkerID: w.ID}
	}
}
