package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ttsdumper/internal/asset"
	"ttsdumper/internal/storage"
)

const (
	DefaultWorkers   = 15
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "ttsdumper/1.0"
)

// Options configures a Fetcher. Zero values fall back to the defaults above.
type Options struct {
	Workers   int
	Timeout   time.Duration
	UserAgent string
	Replace   bool
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
	Logger *zerolog.Logger
}

// Fetcher downloads tasks into a Layout with a fixed number of workers.
type Fetcher struct {
	client    *http.Client
	layout    *storage.Layout
	workers   int
	userAgent string
	replace   bool
	log       zerolog.Logger
}

func New(layout *storage.Layout, opts Options) *Fetcher {
	f := &Fetcher{
		client:    opts.Client,
		layout:    layout,
		workers:   opts.Workers,
		userAgent: opts.UserAgent,
		replace:   opts.Replace,
		log:       zerolog.Nop(),
	}
	if f.workers <= 0 {
		f.workers = DefaultWorkers
	}
	if f.userAgent == "" {
		f.userAgent = DefaultUserAgent
	}
	if f.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		f.client = &http.Client{Timeout: timeout}
	}
	if opts.Logger != nil {
		f.log = *opts.Logger
	}
	return f
}

// Run fetches every task and returns once all of them are written, skipped or
// failed. Per-task failures end up in the report; the returned error is only
// set when the output layout cannot be created or ctx is cancelled.
func (f *Fetcher) Run(ctx context.Context, tasks []asset.Task) (*Report, error) {
	if err := f.layout.Ensure(); err != nil {
		return nil, err
	}

	report := &Report{Total: len(tasks)}
	if len(tasks) == 0 {
		return report, nil
	}

	workers := min(f.workers, len(tasks))
	jobs := make(chan asset.Task)
	results := make(chan Result, workers)

	var g errgroup.Group
	g.Go(func() error {
		defer close(jobs)
		for _, task := range tasks {
			select {
			case jobs <- task:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for task := range jobs {
				results <- f.fetch(ctx, task)
			}
			return nil
		})
	}

	var runErr error
	go func() {
		runErr = g.Wait()
		close(results)
	}()

	for res := range results {
		report.add(res)
		f.logResult(report.Processed(), report.Total, res)
	}

	if runErr != nil {
		return report, fmt.Errorf("fetch interrupted: %w", runErr)
	}
	return report, nil
}

func (f *Fetcher) fetch(ctx context.Context, task asset.Task) Result {
	res := Result{Task: task}

	if skip, err := f.present(task); err != nil {
		return failed(res, fmt.Errorf("%w: %w", ErrWrite, err))
	} else if skip {
		res.Status = StatusSkipped
		return res
	}

	data, code, err := f.get(ctx, task.URL)
	res.StatusCode = code
	if err != nil {
		return failed(res, err)
	}

	// Another task with the same local name may have finished while this
	// one was downloading.
	if skip, err := f.present(task); err != nil {
		return failed(res, fmt.Errorf("%w: %w", ErrWrite, err))
	} else if skip {
		res.Status = StatusSkipped
		return res
	}

	if err := f.layout.Write(ctx, task, data); err != nil {
		return failed(res, fmt.Errorf("%w: %w", ErrWrite, err))
	}
	res.Status = StatusWritten
	res.Bytes = int64(len(data))
	return res
}

// present reports whether the task's file exists and must be left alone.
func (f *Fetcher) present(task asset.Task) (bool, error) {
	if f.replace {
		return false, nil
	}
	return f.layout.Exists(task)
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, &HTTPStatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	return data, resp.StatusCode, nil
}

func (f *Fetcher) logResult(done, total int, res Result) {
	var ev *zerolog.Event
	switch res.Status {
	case StatusFailed:
		ev = f.log.Warn().Err(res.Err)
		if res.StatusCode != 0 {
			ev = ev.Int("status_code", res.StatusCode)
		}
	case StatusSkipped:
		ev = f.log.Debug().Str("path", f.layout.Path(res.Task))
	default:
		ev = f.log.Info().Int64("bytes", res.Bytes)
	}
	ev.Str("kind", res.Task.Kind.String()).
		Str("status", res.Status.String()).
		Msgf("(%d/%d) %s", done, total, res.Task.URL)
}

func failed(res Result, err error) Result {
	res.Status = StatusFailed
	res.Err = err
	return res
}
