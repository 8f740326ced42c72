package viewstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
)

var ErrNotLoaded = errors.New("screen data not loaded")

type Options struct {
	Runner    Runner
	Clock     Clock
	NoticeTTL time.Duration
	Logger    zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Runner == nil {
		o.Runner = AsyncRunner{}
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.NoticeTTL <= 0 {
		o.NoticeTTL = DefaultNoticeTTL
	}
	return o
}

// fetchFunc performs one read and returns the closure that writes its result into the
// screen. The closure runs with the screen lock held.
type fetchFunc func(ctx context.Context) (commit func(), err error)

// source is one read of a screen. prepare runs under the screen lock when the read is issued,
// so it captures the parameter values the request is made with.
type source struct {
	key     string
	prepare func() fetchFunc
	reset   func()
}

// screen holds the machinery shared by every screen: one sequence token per read key,
// cancellation of superseded reads, the loading/error bookkeeping, notices and observers.
type screen struct {
	name    string
	loadMsg string
	log     zerolog.Logger
	runner  Runner
	notices *Notices

	mu        sync.Mutex
	ctx       context.Context
	stop      context.CancelFunc
	activated bool
	sources   map[string]source
	seq       map[string]uint64
	cancels   map[string]context.CancelFunc
	pending   map[string]bool
	failed    map[string]error

	wg sync.WaitGroup

	obsMu     sync.Mutex
	obsNext   int
	observers map[int]func()
}

func newScreen(name, loadMsg string, opts Options) *screen {
	opts = opts.withDefaults()
	s := &screen{
		name:      name,
		loadMsg:   loadMsg,
		log:       opts.Logger.With().Str("screen", name).Logger(),
		runner:    opts.Runner,
		sources:   make(map[string]source),
		seq:       make(map[string]uint64),
		cancels:   make(map[string]context.CancelFunc),
		pending:   make(map[string]bool),
		failed:    make(map[string]error),
		observers: make(map[int]func()),
	}
	s.notices = NewNotices(opts.Clock, opts.NoticeTTL, s.changed)
	return s
}

func (s *screen) register(src source) { s.sources[src.key] = src }

func (s *screen) Name() string { return s.name }

func (s *screen) Notices() *Notices { return s.notices }

// Subscribe registers fn to be called after every state change. The returned func removes it.
func (s *screen) Subscribe(fn func()) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.obsNext
	s.obsNext++
	s.observers[id] = fn
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *screen) changed() {
	s.obsMu.Lock()
	fns := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Wait blocks until every read issued so far has settled.
func (s *screen) Wait() { s.wg.Wait() }

func (s *screen) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phaseLocked()
}

func (s *screen) Loading() bool { return s.Phase() == PhaseLoading }

func (s *screen) phaseLocked() Phase {
	switch {
	case !s.activated || len(s.pending) > 0:
		return PhaseLoading
	case len(s.failed) > 0:
		return PhaseError
	}
	return PhaseReady
}

// activate binds the screen to ctx and issues every registered read. Calling it again reloads.
func (s *screen) activate(ctx context.Context, keys ...string) {
	s.mu.Lock()
	if s.stop != nil {
		s.stop()
	}
	s.ctx, s.stop = context.WithCancel(ctx)
	s.activated = true
	s.mu.Unlock()
	s.load(keys...)
}

// Close cancels in-flight reads and stops the notice timers.
func (s *screen) Close() {
	s.mu.Lock()
	if s.stop != nil {
		s.stop()
	}
	s.mu.Unlock()
	s.notices.Stop()
}

func (s *screen) beginLocked(parent context.Context, key string) (uint64, context.Context) {
	if cancel, ok := s.cancels[key]; ok {
		cancel()
	}
	s.seq[key]++
	ctx, cancel := context.WithCancel(parent)
	s.cancels[key] = cancel
	return s.seq[key], ctx
}

func (s *screen) finishLocked(key string) {
	if cancel, ok := s.cancels[key]; ok {
		cancel()
		delete(s.cancels, key)
	}
	delete(s.pending, key)
}

func (s *screen) isCurrent(key string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq[key] == token
}

// load issues the reads named by keys as one group. Results are committed all together once
// the whole group has settled; if any read of the group that is still current fails, every
// current read of the group is reset instead. Reads superseded by a newer request for the
// same key are dropped without touching state.
func (s *screen) load(keys ...string) {
	s.mu.Lock()
	if !s.activated || len(keys) == 0 {
		s.mu.Unlock()
		return
	}
	g, gctx := errgroup.WithContext(s.ctx)
	srcs := make([]source, len(keys))
	fetches := make([]fetchFunc, len(keys))
	tokens := make([]uint64, len(keys))
	ctxs := make([]context.Context, len(keys))
	for i, k := range keys {
		srcs[i] = s.sources[k]
		tokens[i], ctxs[i] = s.beginLocked(gctx, k)
		fetches[i] = srcs[i].prepare()
		s.pending[k] = true
		delete(s.failed, k)
	}
	s.mu.Unlock()
	s.changed()

	s.wg.Add(1)
	s.runner.Do(func() {
		defer s.wg.Done()

		commits := make([]func(), len(keys))
		errs := make([]error, len(keys))
		for i := range keys {
			g.Go(func() error {
				commit, err := fetches[i](ctxs[i])
				if err != nil {
					if !s.isCurrent(keys[i], tokens[i]) {
						return nil
					}
					errs[i] = err
					return err
				}
				commits[i] = commit
				return nil
			})
		}
		first := g.Wait()

		s.settle(srcs, tokens, commits, errs, first)
	})
}

// settle commits or resets the reads of a group that are still current. first is the error
// that made the group cancel its siblings, if any; it is what gets logged.
func (s *screen) settle(srcs []source, tokens []uint64, commits []func(), errs []error, first error) {
	s.mu.Lock()
	var cause error
	current := make([]bool, len(srcs))
	for i, src := range srcs {
		if s.seq[src.key] != tokens[i] {
			s.log.Debug().Str("key", src.key).Uint64("token", tokens[i]).Msg("discarding stale response")
			continue
		}
		current[i] = true
		if errs[i] != nil && cause == nil {
			cause = errs[i]
		}
	}
	if cause != nil && first != nil {
		cause = first
	}
	for i, src := range srcs {
		if !current[i] {
			continue
		}
		s.finishLocked(src.key)
		switch {
		case cause != nil:
			if src.reset != nil {
				src.reset()
			}
			s.failed[src.key] = cause
		case commits[i] != nil:
			commits[i]()
		}
	}
	s.mu.Unlock()

	if cause != nil {
		s.log.Warn().Err(cause).Msg("load failed")
		s.notices.Error(s.loadMsg)
	}
	s.changed()
}

// refresh re-reads key in the background without entering the loading phase. Failures are
// logged and leave the current value in place. It is skipped while a regular load of the key
// is outstanding.
func (s *screen) refresh(key string) {
	s.mu.Lock()
	if !s.activated || s.pending[key] {
		s.mu.Unlock()
		return
	}
	token, ctx := s.beginLocked(s.ctx, key)
	fetch := s.sources[key].prepare()
	s.mu.Unlock()

	s.wg.Add(1)
	s.runner.Do(func() {
		defer s.wg.Done()
		commit, err := fetch(ctx)

		s.mu.Lock()
		if s.seq[key] != token {
			s.mu.Unlock()
			return
		}
		s.finishLocked(key)
		if err != nil {
			s.mu.Unlock()
			s.log.Warn().Err(err).Str("key", key).Msg("background refresh failed")
			return
		}
		if commit != nil {
			commit()
		}
		s.mu.Unlock()
		s.changed()
	})
}

// mutate runs a server mutation on the caller's goroutine. On success the returned commit is
// applied under the lock; if a read of key is in flight it was issued before the mutation, so
// it is reissued to keep it from overwriting the confirmed entity.
func (s *screen) mutate(ctx context.Context, key, failMsg string, call func(ctx context.Context) (func(), error)) error {
	commit, err := call(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("mutation failed")
		s.notices.Error(failMsg)
		return err
	}
	s.mu.Lock()
	commit()
	stale := s.pending[key]
	s.mu.Unlock()
	s.changed()
	if stale {
		s.load(key)
	}
	return nil
}
