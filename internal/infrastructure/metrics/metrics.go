package metrics

import (
	"expvar"
)

// Executor metrics.
var (
	runsStarted   = new(expvar.Int)
	runsCompleted = new(expvar.Int)
	runsFailed    = new(expvar.Int)
	nodesFired    = new(expvar.Int)
	jobsQueued    = new(expvar.Int)
	poolWorkers   = new(expvar.Int)
)

func init() {
	expvar.Publish("mdflow_runs_started_total", runsStarted)
	expvar.Publish("mdflow_runs_completed_total", runsCompleted)
	expvar.Publish("mdflow_runs_failed_total", runsFailed)
	expvar.Publish("mdflow_nodes_fired_total", nodesFired)
	expvar.Publish("mdflow_jobs_queued_total", jobsQueued)
	expvar.Publish("mdflow_pool_workers", poolWorkers)
}

// Executor helpers
func IncRunsStarted()      { runsStarted.Add(1) }
func IncRunsCompleted()    { runsCompleted.Add(1) }
func IncRunsFailed()       { runsFailed.Add(1) }
func IncNodesFired()       { nodesFired.Add(1) }
func AddJobsQueued(n int)  { jobsQueued.Add(int64(n)) }
func SetPoolWorkers(n int) { poolWorkers.Set(int64(n)) }

// Snapshots for tests and status reporting.
func RunsStarted() int64   { return runsStarted.Value() }
func RunsCompleted() int64 { return runsCompleted.Value() }
func NodesFired() int64    { return nodesFired.Value() }
