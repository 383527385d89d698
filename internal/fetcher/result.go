package fetcher

import (
	"errors"
	"fmt"
	"net/http"

	"ttsdumper/internal/asset"
)

var (
	// ErrNetwork wraps failures where no complete response was received,
	// including request timeouts.
	ErrNetwork = errors.New("network error")
	// ErrWrite wraps failures to persist a fetched payload.
	ErrWrite = errors.New("write error")
)

// HTTPStatusError is returned when the host answers with anything but 200.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

type Status int

const (
	StatusWritten Status = iota + 1
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one task.
type Result struct {
	Task       asset.Task
	Status     Status
	StatusCode int
	Bytes      int64
	Err        error
}

// Report aggregates the results of a run.
type Report struct {
	Total   int
	Written int
	Skipped int
	Bytes   int64
	Failed  []Result
}

func (r *Report) add(res Result) {
	switch res.Status {
	case StatusWritten:
		r.Written++
		r.Bytes += res.Bytes
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed = append(r.Failed, res)
	}
}

// Processed is the number of tasks that reached a final state.
func (r *Report) Processed() int {
	return r.Written + r.Skipped + len(r.Failed)
}
