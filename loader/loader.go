// Package loader imports glTF files off the main goroutine and hands the
// results back through callbacks run by Poll.
package loader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"gltf-scenes/scene"
)

// LoadError is the single failure kind of a load request.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Progress reports completed import steps of one request.
type Progress struct {
	Path   string
	Loaded int
	Total  int
}

// Percent returns Loaded/Total in [0, 100].
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Loaded) / float64(p.Total) * 100
}

// ParseFunc reads one asset file into a model.
type ParseFunc func(path string, progress scene.ProgressFunc) (*scene.Model, error)

// Loader runs parse jobs on a worker pool. Callbacks are queued and only
// invoked from Poll, so they run on whichever goroutine polls.
type Loader struct {
	Parse ParseFunc

	log  *slog.Logger
	pool worker.DynamicWorkerPool
	path string

	mu    sync.Mutex
	queue []func()

	inflight sync.WaitGroup
	nextID   int
	pending  int
}

// New creates a loader with up to workers parse goroutines.
func New(workers int, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		Parse: scene.LoadGLTF,
		log:   log,
		pool:  worker.NewDynamicWorkerPool(max(workers, 1), 16, 1*time.Second),
	}
}

// SetPath sets the directory that request names are resolved against.
func (l *Loader) SetPath(path string) *Loader {
	l.path = path
	return l
}

// Pending returns the number of requests whose final callback has not run.
func (l *Loader) Pending() int {
	return l.pending
}

// Load starts an asynchronous import of name. Exactly one of onLoad or
// onError eventually runs; onProgress may run any number of times before
// it. Any callback may be nil.
func (l *Loader) Load(name string, onLoad func(*scene.Model), onProgress func(Progress), onError func(error)) {
	path := name
	if l.path != "" && !filepath.IsAbs(name) {
		path = filepath.Join(l.path, name)
	}

	l.pending++
	l.inflight.Add(1)
	id := l.nextID
	l.nextID++

	l.log.Debug("load queued", "id", id, "path", path)
	l.pool.SubmitTask(worker.Task{
		ID: id,
		// results travel through the callback queue, not the pool
		Do: func() (any, error) {
			defer l.inflight.Done()

			model, err := l.parse(path, func(done, total int) {
				if onProgress == nil {
					return
				}
				p := Progress{Path: path, Loaded: done, Total: total}
				l.enqueue(func() { onProgress(p) })
			})
			if err != nil {
				lerr := &LoadError{Path: path, Err: err}
				l.enqueue(func() {
					l.pending--
					if onError != nil {
						onError(lerr)
					}
				})
				return nil, nil
			}
			l.enqueue(func() {
				l.pending--
				if onLoad != nil {
					onLoad(model)
				}
			})
			return nil, nil
		},
	})
}

func (l *Loader) parse(path string, progress scene.ProgressFunc) (model *scene.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			model, err = nil, fmt.Errorf("parser panic: %v", r)
		}
	}()
	model, err = l.Parse(path, progress)
	if err == nil && model == nil {
		err = fmt.Errorf("parser returned no model")
	}
	return model, err
}

func (l *Loader) enqueue(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
}

// Poll runs every queued callback in arrival order and returns how many ran.
func (l *Loader) Poll() int {
	l.mu.Lock()
	queue := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
	return len(queue)
}

// Wait blocks until every submitted request has finished parsing. Callbacks
// still need a Poll afterwards.
func (l *Loader) Wait() {
	l.inflight.Wait()
}
