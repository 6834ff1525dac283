// Package worker provides concurrent per-track analysis for dataset builds.
package worker

import (
	"context"
	"sync"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
)

// AnalyzeFunc analyzes a single track and reports the outcome. The pool never
// inspects the result; it only moves work.
type AnalyzeFunc func(ctx context.Context, track domain.Track) domain.TrackResult

// Pool fans tracks out to a fixed set of workers and collects per-track
// results. Unlike a fire-and-forget queue, every submitted track produces
// exactly one result; a dataset build has to account for all of them.
type Pool struct {
	analyze AnalyzeFunc
	jobs    chan domain.Track
	results chan domain.TrackResult
	wg      sync.WaitGroup
}

// NewPool creates a pool with the given queue size.
func NewPool(analyze AnalyzeFunc, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		analyze: analyze,
		jobs:    make(chan domain.Track, queueSize),
		results: make(chan domain.TrackResult, queueSize),
	}
}

// Start launches the worker goroutines. The results channel closes once all
// workers have drained the queue after Close.
func (p *Pool) Start(ctx context.Context, workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for track := range p.jobs {
				if err := ctx.Err(); err != nil {
					p.results <- domain.TrackResult{Track: track, Status: domain.TrackFailed, Err: err}
					continue
				}
				p.results <- p.analyze(ctx, track)
			}
		}()
	}
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// Submit queues a track, blocking until a worker can take it.
func (p *Pool) Submit(track domain.Track) {
	p.jobs <- track
}

// Close signals that no more tracks will be submitted.
func (p *Pool) Close() {
	close(p.jobs)
}

// Results returns the channel the workers report on.
func (p *Pool) Results() <-chan domain.TrackResult {
	return p.results
}

// Process runs all tracks through a temporary pool and returns every result.
// The collector starts before submission so a full results buffer can never
// stall the workers.
func Process(ctx context.Context, analyze AnalyzeFunc, tracks []domain.Track, workers int) []domain.TrackResult {
	pool := NewPool(analyze, workers*2)
	pool.Start(ctx, workers)

	done := make(chan []domain.TrackResult, 1)
	go func() {
		out := make([]domain.TrackResult, 0, len(tracks))
		for res := range pool.Results() {
			out = append(out, res)
		}
		done <- out
	}()

	for _, track := range tracks {
		pool.Submit(track)
	}
	pool.Close()
	return <-done
}
