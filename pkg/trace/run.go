// Package trace sums the cycle cost of recorded instruction streams.
package trace

import (
	"path/filepath"
	"time"

	"github.com/oisee/gbtiming/pkg/result"
	"github.com/oisee/gbtiming/pkg/timing"
	"github.com/sirupsen/logrus"
)

// Config holds trace costing configuration.
type Config struct {
	NumWorkers int                // Number of parallel workers (defaults to NumCPU)
	Table      *timing.Table      // Cycle table (defaults to the builtin table)
	Log        logrus.FieldLogger // Defaults to the standard logger
}

// LoadTasks reads every trace file. The task name is the file's base name.
func LoadTasks(paths []string) ([]Task, error) {
	tasks := make([]Task, 0, len(paths))
	for _, p := range paths {
		steps, err := ParseTraceFile(p)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, Task{Name: filepath.Base(p), Steps: steps})
	}
	return tasks, nil
}

// Run costs the traces at paths and returns the results.
func Run(cfg Config, paths []string) (*result.Table, error) {
	if cfg.Table == nil {
		cfg.Table = timing.Builtin()
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}

	tasks, err := LoadTasks(paths)
	if err != nil {
		return nil, err
	}

	pool := NewWorkerPool(cfg.NumWorkers, cfg.Table, cfg.Log)
	startTime := time.Now()

	pool.RunTasks(tasks)

	steps, traces := pool.Stats()
	cfg.Log.WithFields(logrus.Fields{
		"traces":  traces,
		"steps":   steps,
		"workers": pool.NumWorkers,
		"elapsed": time.Since(startTime).Round(time.Millisecond),
	}).Info("trace costing finished")

	return pool.Results, nil
}
