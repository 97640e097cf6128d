package trace

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/oisee/gbtiming/pkg/inst"
	"github.com/oisee/gbtiming/pkg/result"
	"github.com/oisee/gbtiming/pkg/timing"
	"github.com/sirupsen/logrus"
)

// WorkerPool costs traces in parallel against one shared table.
type WorkerPool struct {
	NumWorkers int
	Table      *timing.Table
	Results    *result.Table
	Log        logrus.FieldLogger
	steps      atomic.Int64
	traces     atomic.Int64
}

// NewWorkerPool creates a pool with the given number of workers.
func NewWorkerPool(numWorkers int, tbl *timing.Table, log logrus.FieldLogger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WorkerPool{
		NumWorkers: numWorkers,
		Table:      tbl,
		Results:    result.NewTable(),
		Log:        log,
	}
}

// Task is a unit of work: one named trace to cost.
type Task struct {
	Name  string
	Steps []Step
}

// Stats returns costing statistics.
func (wp *WorkerPool) Stats() (steps, traces int64) {
	return wp.steps.Load(), wp.traces.Load()
}

// RunTasks distributes tasks across workers and waits for all of them.
func (wp *WorkerPool) RunTasks(tasks []Task) {
	ch := make(chan Task, len(tasks))
	for _, t := range tasks {
		ch <- t
	}
	close(ch)

	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range ch {
				wp.processTask(task)
			}
		}()
	}
	wg.Wait()
}

// processTask costs one trace and records the result.
func (wp *WorkerPool) processTask(task Task) {
	entry := result.Entry{
		Name:  task.Name,
		Steps: len(task.Steps),
	}
	for _, s := range task.Steps {
		if s.Taken && s.Prefix != timing.PrefixCB && inst.IsConditional(s.Opcode) {
			entry.Taken++
		}
	}
	entry.Cycles = Cost(wp.Table, task.Steps)
	entry.Frames = Frames(entry.Cycles)

	wp.steps.Add(int64(len(task.Steps)))
	wp.traces.Add(1)
	wp.Results.Add(entry)

	wp.Log.WithFields(logrus.Fields{
		"trace":  task.Name,
		"steps":  entry.Steps,
		"taken":  entry.Taken,
		"cycles": entry.Cycles,
	}).Debug("costed trace")
}
