// Package pagedata loads independent page sections concurrently on a shared
// bounded worker pool.
package pagedata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/madrasahweb/site/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

// ErrLoaderClosed is returned when tasks are submitted after Release.
var ErrLoaderClosed = errors.New("page data loader is closed")

// Task fetches one section of a page. Tasks write their results into
// variables captured by Run.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Errors maps failed task names to their errors. An empty map means every
// task succeeded.
type Errors map[string]error

// Err joins all task errors, or returns nil.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	errs := make([]error, 0, len(e))
	for name, err := range e {
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return errors.Join(errs...)
}

// Options configures a Loader.
type Options struct {
	Size   int
	Expiry time.Duration
	Logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Options)

// WithSize sets the number of concurrent workers.
func WithSize(size int) Option {
	return func(o *Options) {
		o.Size = size
	}
}

// WithExpiry sets how long idle workers are kept.
func WithExpiry(d time.Duration) Option {
	return func(o *Options) {
		o.Expiry = d
	}
}

// WithLogger sets the logger for task failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Loader runs page section tasks on an ants pool.
type Loader struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// New builds a Loader. The default size is four workers per CPU.
func New(opts ...Option) (*Loader, error) {
	options := Options{Size: runtime.NumCPU() * 4, Expiry: time.Minute}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.Size <= 0 {
		options.Size = runtime.NumCPU() * 4
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	pool, err := ants.NewPool(options.Size,
		ants.WithExpiryDuration(options.Expiry),
		ants.WithNonblocking(false),
	)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Loader{pool: pool, logger: options.Logger}, nil
}

// Release stops the pool's workers.
func (l *Loader) Release() {
	if l == nil || l.pool == nil {
		return
	}
	l.pool.Release()
}

// Load runs every task and waits for all of them. A failing or panicking
// task does not stop the others; its error is logged and reported in the
// returned map. A nil Loader runs tasks sequentially.
func (l *Loader) Load(ctx context.Context, tasks ...Task) Errors {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		failed = Errors{}
	)
	record := func(name string, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		failed[name] = err
		mu.Unlock()
	}

	for _, task := range tasks {
		if task.Run == nil {
			continue
		}
		if l == nil || l.pool == nil {
			record(task.Name, runTask(ctx, task))
			continue
		}
		wg.Add(1)
		err := l.pool.Submit(func() {
			defer wg.Done()
			record(task.Name, runTask(ctx, task))
		})
		if err != nil {
			wg.Done()
			if errors.Is(err, ants.ErrPoolClosed) {
				err = ErrLoaderClosed
			}
			record(task.Name, err)
		}
	}
	wg.Wait()

	if l != nil {
		for name, err := range failed {
			l.logger.WarnContext(ctx, "page section failed", "section", name, logging.Err(err))
		}
	}
	return failed
}

func runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return task.Run(ctx)
}
