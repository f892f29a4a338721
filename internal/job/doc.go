// Package job implements the two daily generation jobs and the
// bounded-concurrency batch runner they execute on. Jobs are triggered over
// HTTP by a scheduler, run to completion within the request, and report a
// per-item outcome summary.
package job
