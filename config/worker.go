package config

import (
	"time"

	"github.com/ncobase/classroom/concurrency/worker"
	"github.com/spf13/viper"
)

// Worker sizes the pool that runs password hashing
type Worker = worker.Config

func getWorkerConfig(v *viper.Viper) *Worker {
	return &Worker{
		MaxWorkers:  getIntOrDefault(v, "worker.max_workers", 8),
		QueueSize:   getIntOrDefault(v, "worker.queue_size", 256),
		TaskTimeout: getDurationOrDefault(v, "worker.task_timeout", 30*time.Second),
	}
}
