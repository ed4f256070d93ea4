package scheduler

import (
	"context"
	"fmt"
	"sync"
)

// Work is a unit of work run by a worker of the scheduler.
type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

// Future receives the result of one unit of work.
type Future[T any] struct {
	c      chan Result[T]
	cancel context.CancelFunc
}

// C delivers the result once. It is buffered so the worker never blocks on
// an abandoned future.
func (f *Future[T]) C() <-chan Result[T] {
	return f.c
}

// Stop cancels the context of the work.
func (f *Future[T]) Stop() {
	f.cancel()
}

type workRequest[T any] struct {
	fn     Work[T]
	ctx    context.Context
	cancel context.CancelFunc
	c      chan Result[T]
}

// Scheduler runs work on a fixed number of workers in FIFO order.
type Scheduler[T any] struct {
	idle  int
	queue []workRequest[T]

	work    chan workRequest[T]
	done    chan struct{}
	close   chan struct{}
	stopped chan struct{}

	running    sync.WaitGroup
	closeOnce  sync.Once
	mainCtx    context.Context
	mainCancel context.CancelFunc
}

func NewScheduler[T any](nbWorkers int) *Scheduler[T] {
	if nbWorkers < 1 {
		nbWorkers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler[T]{
		idle:       nbWorkers,
		work:       make(chan workRequest[T]),
		done:       make(chan struct{}),
		close:      make(chan struct{}),
		stopped:    make(chan struct{}),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	go s.run()
	return s
}

// AddWork queues w. After Close the returned future resolves immediately
// with context.Canceled.
func (s *Scheduler[T]) AddWork(w Work[T]) *Future[T] {
	ctx, cancel := context.WithCancel(s.mainCtx)
	r := workRequest[T]{fn: w, ctx: ctx, cancel: cancel, c: make(chan Result[T], 1)}

	select {
	case s.work <- r:
	case <-s.stopped:
		cancel()
		r.c <- Result[T]{Err: context.Canceled}
	}

	return &Future[T]{c: r.c, cancel: cancel}
}

// Close cancels the context of every queued and running work, then waits
// for the running work to return.
func (s *Scheduler[T]) Close() {
	s.closeOnce.Do(func() {
		s.mainCancel()
		close(s.close)
		<-s.stopped
		s.running.Wait()
	})
}

func (s *Scheduler[T]) run() {
	defer close(s.stopped)

	for {
		select {
		case r := <-s.work:
			s.queue = append(s.queue, r)
			s.dispatch()
		case <-s.done:
			s.idle++
			s.dispatch()
		case <-s.close:
			for _, r := range s.queue {
				r.cancel()
				r.c <- Result[T]{Err: context.Canceled}
			}
			s.queue = nil
			return
		}
	}
}

func (s *Scheduler[T]) dispatch() {
	for s.idle > 0 && len(s.queue) > 0 {
		r := s.queue[0]
		s.queue = s.queue[1:]
		s.idle--

		s.running.Add(1)
		go s.execute(r)
	}
}

func (s *Scheduler[T]) execute(r workRequest[T]) {
	defer s.running.Done()

	r.c <- call(r)
	r.cancel()

	select {
	case s.done <- struct{}{}:
	case <-s.stopped:
	}
}

func call[T any](r workRequest[T]) (result Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			result = Result[T]{Err: fmt.Errorf("worker panicked: %v", p)}
		}
	}()

	v, err := r.fn(r.ctx)
	return Result[T]{Data: v, Err: err}
}
