package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/yndnr/teataster-go/internal/telemetry/logger"
)

// DefaultQueueSize is the dispatch buffer size.
const DefaultQueueSize = 256

// Effect reacts to actions of the listed types. Run returns the follow-up
// action or nil.
//
// Runs of an effect overlap unless Serial is set, in which case each run
// starts after the previous one has dispatched its follow-up, so results
// are reduced in the order their triggers were.
type Effect struct {
	Name   string
	On     []ActionType
	Run    func(ctx context.Context, a Action) *Action
	Serial bool
}

func (e Effect) handles(t ActionType) bool {
	return slices.Contains(e.On, t)
}

// Metrics counts store activity. *metric.Registry implements it.
type Metrics interface {
	IncAction(actionType string)
	IncEffectFailure(effect string)
}

type nopMetrics struct{}

func (nopMetrics) IncAction(string)        {}
func (nopMetrics) IncEffectFailure(string) {}

// Listener is called with the new state after each reduced action.
type Listener func(s State, a Action)

// Store holds the application state.
type Store struct {
	queue   chan Action
	done    chan struct{}
	stopped sync.Once

	mu        sync.RWMutex
	state     State
	effects   []Effect
	listeners map[int]Listener
	nextID    int

	// pending counts queued actions plus running effects.
	pendingMu sync.Mutex
	pending   int
	idle      []chan struct{}

	// lanes holds the completion channel of the latest run of each
	// serial effect. Only the reducer goroutine touches it.
	lanes map[string]chan struct{}

	effectsWG sync.WaitGroup
	logger    *slog.Logger
	metrics   Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithInitialState replaces InitialState.
func WithInitialState(st State) Option {
	return func(s *Store) {
		s.state = st
	}
}

// WithQueueSize overrides DefaultQueueSize.
func WithQueueSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.queue = make(chan Action, n)
		}
	}
}

// New creates a store. Nothing is reduced until Run is called.
func New(opts ...Option) *Store {
	s := &Store{
		queue:     make(chan Action, DefaultQueueSize),
		done:      make(chan struct{}),
		state:     InitialState(),
		listeners: make(map[int]Listener),
		lanes:     make(map[string]chan struct{}),
		logger:    slog.Default(),
		metrics:   nopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "store")
	return s
}

// Register adds effects. Effects registered after Run starts see only
// later actions.
func (s *Store) Register(effects ...Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effects = append(s.effects, effects...)
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers l and returns a function that removes it. Listeners
// run on the reducer goroutine and must not block.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Dispatch queues a. It returns the action id, or "" when the store has
// stopped.
func (s *Store) Dispatch(a Action) string {
	if a.ID == "" {
		a.ID = newActionID()
	}
	select {
	case <-s.done:
		s.logger.Debug("action dropped, store stopped", "type", a.Type, "action_id", a.ID)
		return ""
	default:
	}
	s.addPending(1)
	select {
	case s.queue <- a:
		return a.ID
	case <-s.done:
		s.addPending(-1)
		s.logger.Debug("action dropped, store stopped", "type", a.Type, "action_id", a.ID)
		return ""
	}
}

// Run reduces queued actions until ctx is cancelled, then waits for
// running effects to return.
func (s *Store) Run(ctx context.Context) error {
	defer func() {
		s.stopped.Do(func() { close(s.done) })
		s.effectsWG.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case a := <-s.queue:
			s.process(ctx, a)
		}
	}
}

// Done is closed once Run has returned or is returning.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

func (s *Store) process(ctx context.Context, a Action) {
	s.metrics.IncAction(string(a.Type))
	s.logger.Debug("action", "type", a.Type, "action_id", a.ID)

	s.mu.Lock()
	s.state = Reduce(s.state, a)
	st := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	var triggered []Effect
	for _, e := range s.effects {
		if e.handles(a.Type) {
			triggered = append(triggered, e)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(st, a)
	}

	ectx := logger.WithActionID(ctx, a.ID)
	for _, e := range triggered {
		var prev, cur chan struct{}
		if e.Serial {
			prev = s.lanes[e.Name]
			cur = make(chan struct{})
			s.lanes[e.Name] = cur
		}
		s.addPending(1)
		s.effectsWG.Add(1)
		go s.runEffect(ectx, e, a, prev, cur)
	}
	s.addPending(-1)
}

func (s *Store) runEffect(ctx context.Context, e Effect, a Action, prev, cur chan struct{}) {
	if cur != nil {
		defer close(cur)
	}
	if prev != nil {
		<-prev
	}
	defer s.effectsWG.Done()
	defer s.addPending(-1)
	defer func() {
		if r := recover(); r != nil {
			s.metrics.IncEffectFailure(e.Name)
			s.logger.Error("effect panicked",
				"effect", e.Name,
				"action_id", a.ID,
				"panic", fmt.Sprint(r))
		}
	}()

	next := e.Run(ctx, a)
	if next == nil {
		return
	}
	if next.Type.IsFailure() {
		s.metrics.IncEffectFailure(e.Name)
		s.logger.Warn("effect failed",
			"effect", e.Name,
			"action_id", a.ID,
			"result", next.Type,
			"error", next.ErrorMessage)
	}
	s.Dispatch(*next)
}

func (s *Store) addPending(n int) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	s.pending += n
	if s.pending == 0 {
		for _, ch := range s.idle {
			close(ch)
		}
		s.idle = nil
	}
}

// Settle blocks until no action is queued and no effect is running.
func (s *Store) Settle(ctx context.Context) error {
	s.pendingMu.Lock()
	if s.pending == 0 {
		s.pendingMu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	s.idle = append(s.idle, ch)
	s.pendingMu.Unlock()

	select {
	case <-ch:
		return nil
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Expectation waits for an action of given types to be reduced.
type Expectation struct {
	ch     chan Action
	cancel func()
}

// Expect starts watching for an action of one of types. Call it before
// dispatching the action that leads there.
func (s *Store) Expect(types ...ActionType) *Expectation {
	ch := make(chan Action, 1)
	var once sync.Once
	unsubscribe := s.Subscribe(func(_ State, a Action) {
		if slices.Contains(types, a.Type) {
			once.Do(func() { ch <- a })
		}
	})
	return &Expectation{ch: ch, cancel: unsubscribe}
}

// Wait returns the first matching action.
func (e *Expectation) Wait(ctx context.Context) (Action, error) {
	defer e.cancel()
	select {
	case a := <-e.ch:
		return a, nil
	case <-ctx.Done():
		return Action{}, ctx.Err()
	}
}

// Cancel stops watching.
func (e *Expectation) Cancel() {
	e.cancel()
}

// DispatchAndWait dispatches a and waits for an action of one of until.
func (s *Store) DispatchAndWait(ctx context.Context, a Action, until ...ActionType) (Action, error) {
	exp := s.Expect(until...)
	if s.Dispatch(a) == "" {
		exp.Cancel()
		return Action{}, fmt.Errorf("dispatch %s: store stopped", a.Type)
	}
	return exp.Wait(ctx)
}
