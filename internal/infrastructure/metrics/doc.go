// Package metrics exposes expvar-published counters and gauges for the
// mdflow runtime (executor pool, job queue, and per-run outcomes). It
// intentionally avoids external dependencies and is visible through the
// standard /debug/vars endpoint of any embedding process.
package metrics
