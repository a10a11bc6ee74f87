// Package store runs reducers: state changes happen one action at a time
// under a lock, and side effects run on goroutines that report back with
// further actions.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/jarcover/internal/logging"
)

// Reducer applies action to state and returns follow-up work.
type Reducer[S, A any] func(state *S, action A) Effect[A]

type options struct {
	ctx    context.Context
	logger logging.Logger
}

type Option func(*options)

// WithLogger sets the logger used for action tracing.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithContext sets the parent context of every effect.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// Store owns a state value and serializes every change to it.
type Store[S, A any] struct {
	mu      sync.Mutex
	state   S
	reducer Reducer[S, A]
	queue   []A

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	inflight  map[string]map[uint64]context.CancelFunc
	nextToken uint64

	observers []func(A, S)
	logger    logging.Logger
}

func New[S, A any](initial S, reducer Reducer[S, A], opts ...Option) *Store[S, A] {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}

	ctx, cancel := context.WithCancel(o.ctx)
	return &Store[S, A]{
		state:    initial,
		reducer:  reducer,
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[string]map[uint64]context.CancelFunc),
		logger:   o.logger,
	}
}

// Send processes a and every synchronous follow-up before returning.
func (s *Store[S, A]) Send(a A) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.process(a)
}

// State returns a snapshot of the current state.
func (s *Store[S, A]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Observe registers fn to be called after every action with the resulting
// state. fn runs under the store lock and must not call back into the store.
func (s *Store[S, A]) Observe(fn func(A, S)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Wait blocks until no effect is running.
func (s *Store[S, A]) Wait() {
	s.wg.Wait()
}

// Close cancels every running effect and waits for them to return.
func (s *Store[S, A]) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Store[S, A]) process(a A) {
	s.queue = append(s.queue, a)
	for len(s.queue) > 0 {
		next := s.queue[0]
		var zero A
		s.queue[0] = zero
		s.queue = s.queue[1:]

		s.logger.Debug(s.ctx, "action", "action", fmt.Sprintf("%T", next))

		eff := s.reducer(&s.state, next)
		for _, fn := range s.observers {
			fn(next, s.state)
		}
		s.execute(eff)
	}
}

func (s *Store[S, A]) execute(eff Effect[A]) {
	for _, o := range eff.ops {
		switch o.kind {
		case opSend:
			s.queue = append(s.queue, o.action)
		case opCancel:
			s.cancelID(o.id)
		case opRun:
			s.start(o)
		}
	}
}

func (s *Store[S, A]) cancelID(id string) {
	for _, cancel := range s.inflight[id] {
		cancel()
	}
	delete(s.inflight, id)
}

func (s *Store[S, A]) start(o op[A]) {
	if s.ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	var token uint64
	if o.id != "" {
		if !o.shared {
			s.cancelID(o.id)
		}
		s.nextToken++
		token = s.nextToken
		if s.inflight[o.id] == nil {
			s.inflight[o.id] = make(map[uint64]context.CancelFunc)
		}
		s.inflight[o.id][token] = cancel
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			cancel()
			if o.id == "" {
				return
			}
			s.mu.Lock()
			if m, ok := s.inflight[o.id]; ok {
				delete(m, token)
				if len(m) == 0 {
					delete(s.inflight, o.id)
				}
			}
			s.mu.Unlock()
		}()

		o.run(ctx, func(a A) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if ctx.Err() != nil {
				return
			}
			s.process(a)
		})
	}()
}
