package service

import (
	"context"
	"log"
	"sync"
	"time"

	"metering-dashboard/internal/model"
)

// refreshWorker keeps the cache warm in the background: it re-computes the
// default dashboard window on a ticker and also accepts explicit queries
// to warm via Enqueue. Refresh failures are logged and never fatal; the
// next serve simply pays the fetch cost again.
type refreshWorker struct {
	svc      UsageService
	queue    chan model.SampleQuery
	interval time.Duration
	timeout  time.Duration
	wg       sync.WaitGroup
}

type RefreshWorker interface {
	Enqueue(q model.SampleQuery)
	Shutdown()
}

// NewRefreshWorker starts the background refresh loop. interval is how
// often the default window is re-sampled.
func NewRefreshWorker(svc UsageService, bufferSize int, interval time.Duration) *refreshWorker {
	worker := &refreshWorker{
		svc:      svc,
		queue:    make(chan model.SampleQuery, bufferSize),
		interval: interval,
		timeout:  30 * time.Second,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

// Enqueue requests a warm-up of the given query. Drops the request when
// the queue is full rather than blocking a caller on background work.
func (w *refreshWorker) Enqueue(q model.SampleQuery) {
	select {
	case w.queue <- q:
	default:
	}
}

// Shutdown stops the loop after draining queued refreshes.
func (w *refreshWorker) Shutdown() {
	close(w.queue)
	w.wg.Wait()
}

func (w *refreshWorker) startLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case q, ok := <-w.queue:
			if !ok {
				return
			}
			w.refresh(q)
		case <-ticker.C:
			// Zero query: the service normalizes it to the default window.
			w.refresh(model.SampleQuery{})
		}
	}
}

func (w *refreshWorker) refresh(q model.SampleQuery) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if _, err := w.svc.Summary(ctx, q); err != nil {
		log.Printf("[ERROR] background refresh failed: %v", err)
	}
}
