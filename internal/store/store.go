// Package store holds the picker's selection state and fans out changes.
//
// The store is the only writer of State. Callers request mutations with
// Update, either committed synchronously or coalesced into a single
// commit over a short batching window. Each commit validates the
// candidate state, computes the exact set of changed fields, and
// notifies subscribed observers in priority order.
package store

import (
	"bytes"
	"log/slog"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/keenthemes/ktui-picker/internal/datetime"
	"github.com/keenthemes/ktui-picker/internal/logger"
	"github.com/keenthemes/ktui-picker/internal/perf"
)

// Well-known update sources. Observers inspect the source of a commit to
// decide whether to touch their fragment; arrow stepping in particular
// must not trigger a rebuild of the segment being stepped.
const (
	SourceArrowNav = "arrow-nav"
	SourceSegment  = "segment"
	SourceCalendar = "calendar"
	SourceSpinner  = "spinner"
	SourceQuickSet = "quick-entry"
	SourceConfig   = "config"
	SourceProgram  = "program"
)

// DefaultBatchDelay is the coalescing window for non-immediate updates.
const DefaultBatchDelay = 10 * time.Millisecond

// Observer receives committed state changes. Lower priority runs first.
type Observer interface {
	OnStateChange(next, old Snapshot)
	UpdatePriority() int
}

type subscription struct {
	id       string
	observer Observer
	delay    time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// SubscribeOption configures one subscription.
type SubscribeOption func(*subscription)

// WithDelay debounces delivery to this observer: a notification arriving
// while one is pending replaces it, and only the latest state is seen.
// Independent of the store's own batching.
func WithDelay(d time.Duration) SubscribeOption {
	return func(s *subscription) { s.delay = d }
}

// Store owns the picker state.
type Store struct {
	mu          sync.Mutex
	state       State
	changes     ChangeSet
	source      string
	notifying   bool
	notifyingID uint64

	subs []*subscription

	batching   bool
	batchDelay time.Duration
	pending    Partial
	pendingSrc string
	batchTimer *time.Timer

	clock    func() time.Time
	log      *slog.Logger
	dispatch *perf.Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects the time source, for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithBatchDelay sets the coalescing window for non-immediate updates.
func WithBatchDelay(d time.Duration) Option {
	return func(s *Store) { s.batchDelay = d }
}

// WithoutBatching makes every update commit synchronously.
func WithoutBatching() Option {
	return func(s *Store) { s.batching = false }
}

// WithLogger injects the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a store with the cursor on the current month.
func New(opts ...Option) *Store {
	s := &Store{
		batching:   true,
		batchDelay: DefaultBatchDelay,
		clock:      time.Now,
		changes:    newChangeSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.GetLogger()
	}
	s.dispatch = perf.NewRecorder("store.dispatch", s.log, 50*time.Millisecond)
	s.state = State{
		CursorMonth: datetime.StartOfMonth(s.clock()),
		IsValid:     true,
	}
	return s
}

// GetState returns a defensive copy of the current state.
func (s *Store) GetState() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// LastChanges returns the change set of the most recent commit. It is
// replaced on the next commit.
func (s *Store) LastChanges() ChangeSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changes
}

// LastSource returns the source string of the most recent commit.
func (s *Store) LastSource() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Subscribe registers an observer and returns its unsubscribe func.
func (s *Store) Subscribe(obs Observer, opts ...SubscribeOption) func() {
	sub := &subscription{id: xid.New().String(), observer: obs}
	for _, opt := range opts {
		opt(sub)
	}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, c := range s.subs {
			if c.id == sub.id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		sub.mu.Lock()
		if sub.timer != nil {
			sub.timer.Stop()
		}
		sub.mu.Unlock()
	}
}

// Update merges the partial into the state.
//
// With immediate set (or batching disabled) the merge, validation, diff
// and notification all happen before Update returns. Otherwise the
// partial joins a pending accumulator and one commit fires after the
// batching window; later calls within the window win on conflicting
// fields and the whole batch yields a single notification.
//
// Update returns false in exactly two cases: a hard-invalid candidate
// (commit rejected, nothing applied, errors retained; see
// ValidationErrors on the next GetState) and a re-entrant call from
// inside an observer callback. Callers must not retry synchronously.
// A call arriving from another goroutine while a dispatch is in flight
// is not re-entrant: it is folded into the pending batch and committed
// as soon as the dispatch finishes.
func (s *Store) Update(p Partial, source string, immediate bool) bool {
	if p.Empty() {
		return true
	}

	s.mu.Lock()
	if s.notifying {
		if s.notifyingID == goid() {
			s.mu.Unlock()
			s.log.Warn("rejected re-entrant state update", "source", source)
			return false
		}
		s.queueLocked(p, source, time.Millisecond)
		return true
	}

	if immediate || !s.batching || s.batchDelay <= 0 {
		// An immediate commit flushes anything already pending first so
		// ordering between the two paths stays call-ordered.
		merged := s.takePendingLocked().merge(p)
		return s.commitLocked(merged, source)
	}

	s.queueLocked(p, source, s.batchDelay)
	return true
}

// queueLocked folds the partial into the pending batch and (re)arms the
// flush timer. Called with s.mu held; releases it.
func (s *Store) queueLocked(p Partial, source string, delay time.Duration) {
	s.pending = s.pending.merge(p)
	s.pendingSrc = source
	if s.batchTimer != nil {
		s.batchTimer.Stop()
	}
	if delay <= 0 {
		delay = time.Millisecond
	}
	s.batchTimer = time.AfterFunc(delay, s.flushPending)
	s.mu.Unlock()
}

// Flush commits any pending batched update immediately.
func (s *Store) Flush() {
	s.flushPending()
}

// LogDispatchStats writes the accumulated dispatch profile to the log.
func (s *Store) LogDispatchStats() {
	s.dispatch.LogStats()
}

func (s *Store) flushPending() {
	s.mu.Lock()
	if s.notifying {
		// A commit is dispatching right now; try again after it.
		delay := s.batchDelay
		if delay <= 0 {
			delay = time.Millisecond
		}
		s.batchTimer = time.AfterFunc(delay, s.flushPending)
		s.mu.Unlock()
		return
	}
	p := s.takePendingLocked()
	if p.Empty() {
		s.mu.Unlock()
		return
	}
	s.commitLocked(p, s.pendingSrc)
}

func (s *Store) takePendingLocked() Partial {
	p := s.pending
	s.pending = Partial{}
	if s.batchTimer != nil {
		s.batchTimer.Stop()
		s.batchTimer = nil
	}
	return p
}

// commitLocked is called with s.mu held and releases it before returning.
func (s *Store) commitLocked(p Partial, source string) bool {
	old := s.state.clone()
	candidate := p.apply(s.state)

	errs, hard := validate(candidate)
	candidate.ValidationErrors = errs
	candidate.IsValid = len(errs) == 0

	if hard {
		// Reject: substantive fields stay untouched, only the derived
		// validation fields record what went wrong.
		s.state.ValidationErrors = errs
		s.state.IsValid = false
		s.mu.Unlock()
		s.log.Warn("rejected invalid state update", "source", source, "errors", errs)
		return false
	}

	cs := diff(old, candidate, p)
	s.state = candidate
	s.changes = cs
	s.source = source

	if cs.Empty() {
		s.mu.Unlock()
		return true
	}

	// Dispatch outside the lock so observers can read the store. The
	// notifying flag plus the goroutine id reject observer-nested
	// writes while concurrent ones queue behind the dispatch.
	s.notifying = true
	s.notifyingID = goid()
	subs := make([]*subscription, len(s.subs))
	copy(subs, s.subs)
	next := candidate.clone()
	s.mu.Unlock()

	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].observer.UpdatePriority() < subs[j].observer.UpdatePriority()
	})
	s.dispatch.Time(func() {
		for _, sub := range subs {
			s.deliver(sub, next, old)
		}
	})

	s.mu.Lock()
	s.notifying = false
	s.mu.Unlock()
	return true
}

func (s *Store) deliver(sub *subscription, next, old Snapshot) {
	if sub.delay <= 0 {
		s.safeNotify(sub, next, old)
		return
	}
	sub.mu.Lock()
	if sub.timer != nil {
		sub.timer.Stop()
	}
	sub.timer = time.AfterFunc(sub.delay, func() {
		s.safeNotify(sub, next, old)
	})
	sub.mu.Unlock()
}

// goid reads the current goroutine's id from the stack header. It is
// used only to tell an observer-nested Update apart from a concurrent
// one arriving while a dispatch is in flight.
func goid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// safeNotify isolates one observer call: a panicking renderer must not
// starve the observers behind it.
func (s *Store) safeNotify(sub *subscription, next, old Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("observer panicked during state change",
				"subscription", sub.id, "panic", r)
		}
	}()
	sub.observer.OnStateChange(next, old)
}
