package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ProgressionState names the learner-visible phase of a progression session.
type ProgressionState string

const (
	StateIdle           ProgressionState = "idle"
	StateLoading        ProgressionState = "loading"
	StateActive         ProgressionState = "active"
	StateFeedback       ProgressionState = "feedback"
	StateModuleComplete ProgressionState = "module_complete"
	StateAllComplete    ProgressionState = "all_complete"
)

var (
	ErrNotActive      = errors.New("engine: no exercise is active")
	ErrNoFeedback     = errors.New("engine: no answer has been checked")
	ErrModuleNotDone  = errors.New("engine: current module is not complete")
	ErrSessionClosed  = errors.New("engine: session is closed")
	ErrNothingToCheck = errors.New("engine: answer must not be empty")
)

// CheckResult is what the UI shows after an answer is checked.
type CheckResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
	AttemptCount  int    `json:"attemptCount"`
}

// ProgressionConfig wires a progression session to its collaborators. Only
// UserID, Catalog and Cache are required; without a Progress/Statistics store
// (or without a token) the session runs local-only.
type ProgressionConfig struct {
	UserID     uint
	Catalog    *Catalog
	Cache      LocalCache
	Progress   ProgressStore
	Statistics StatisticsStore
	Token      TokenSource
	Logger     *zap.Logger
	Now        func() time.Time
}

// Progression sequences a learner through modules of exercises: primary queue
// first, then a retry queue of everything answered incorrectly, repeated until
// every exercise in the module window has been answered correctly once.
//
// All exported methods are safe for concurrent use; background remote writes
// never touch session state after Close.
type Progression struct {
	cfg ProgressionConfig

	mu     sync.Mutex
	closed bool
	state  ProgressionState

	module   int
	queue    []Exercise // primary presentation order
	retry    []Exercise // answered incorrectly, re-presented after the primary queue drains
	idx      int
	selected string
	last     *CheckResult

	attempts  map[string]int // per-exercise presentation count for this module cycle
	completed map[string]bool
	score     int
	shownAt   time.Time

	// localMu serializes read-modify-write cycles on the cached statistic
	// lists, which background remote-failure handlers also append to.
	localMu sync.Mutex
	remote  sync.WaitGroup
}

func NewProgression(cfg ProgressionConfig) *Progression {
	if cfg.Token == nil {
		cfg.Token = NoToken
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	p := &Progression{
		cfg:       cfg,
		state:     StateIdle,
		attempts:  make(map[string]int),
		completed: make(map[string]bool),
	}

	// The local cache is read synchronously so the first render never waits
	// on the network; Reconcile merges in the remote view afterwards.
	var ids []string
	if ok, err := cfg.Cache.Get(CompletedExercisesKey(cfg.UserID), &ids); err == nil && ok {
		for _, id := range ids {
			p.completed[id] = true
		}
	}

	return p
}

// Start positions the learner at the module implied by their completion count
// and loads it.
func (p *Progression) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrSessionClosed
	}

	p.module = len(p.completed)/ExercisesPerModule + 1
	if !p.cfg.Catalog.HasModule(p.module) {
		p.module = p.cfg.Catalog.ModuleCount()
		if p.module == 0 {
			p.state = StateAllComplete
			return nil
		}
	}

	return p.loadModuleLocked(ctx)
}

func (p *Progression) loadModuleLocked(ctx context.Context) error {
	p.state = StateLoading

	window, err := p.cfg.Catalog.Module(ctx, p.module)
	if err != nil {
		return err
	}

	p.queue = p.queue[:0]
	for _, ex := range window {
		if !p.completed[ex.ID] {
			p.queue = append(p.queue, ex)
		}
	}
	p.retry = nil
	p.idx = 0
	p.attempts = make(map[string]int)
	p.last = nil

	if len(p.queue) == 0 {
		p.state = StateModuleComplete
		return nil
	}

	p.presentLocked()
	return nil
}

func (p *Progression) presentLocked() {
	ex := p.queue[p.idx]
	p.attempts[ex.ID]++
	p.selected = ""
	p.shownAt = p.cfg.Now()
	p.state = StateActive
}

// CurrentExercise returns a copy of the exercise on display, or nil outside
// the active/feedback states.
func (p *Progression) CurrentExercise() *Exercise {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateActive && p.state != StateFeedback {
		return nil
	}
	ex := p.queue[p.idx]
	return &ex
}

func (p *Progression) SelectAnswer(answer string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateActive {
		p.selected = answer
	}
}

func (p *Progression) SelectedAnswer() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

func (p *Progression) State() ProgressionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Progression) Module() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.module
}

// Score counts first-attempt-correct answers in this session. The persisted
// completed set additionally counts retry-correct answers; the two are
// intentionally different measures (see DESIGN.md).
func (p *Progression) Score() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.score
}

// CompletedCount is the size of the durable completed set.
func (p *Progression) CompletedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.completed)
}

// ModuleProgress reports how many exercises of the current module window are
// still queued (primary + retry, minus the one on display when it has already
// been answered).
func (p *Progression) ModuleProgress() (remaining int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateActive || p.state == StateFeedback {
		remaining = len(p.queue) - p.idx + len(p.retry)
	}
	return remaining
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CheckAnswer grades the selected answer. Correct answers are persisted
// locally first and remotely best-effort; incorrect answers push the exercise
// onto the retry queue. Either way one statistic record is emitted.
func (p *Progression) CheckAnswer(ctx context.Context) (*CheckResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrSessionClosed
	}
	if p.state != StateActive {
		return nil, ErrNotActive
	}
	if strings.TrimSpace(p.selected) == "" {
		return nil, ErrNothingToCheck
	}

	ex := p.queue[p.idx]
	correct := normalizeAnswer(p.selected) == normalizeAnswer(ex.CorrectAnswer)
	now := p.cfg.Now()

	stat := ExerciseStatistic{
		UserID:           p.cfg.UserID,
		ExerciseID:       ex.ID,
		ExerciseType:     ex.Type,
		Module:           p.module,
		Category:         ex.Category,
		Question:         ex.Question,
		SelectedAnswer:   p.selected,
		CorrectAnswer:    ex.CorrectAnswer,
		IsCorrect:        correct,
		AttemptCount:     p.attempts[ex.ID],
		TimeSpentSeconds: int(now.Sub(p.shownAt).Seconds()),
		Difficulty:       ex.Difficulty,
		CompletedAt:      now,
	}
	p.emitStatisticLocked(stat)

	if correct {
		if p.attempts[ex.ID] == 1 {
			p.score++
		}
		p.markCompletedLocked(ex, now)
	} else {
		// Shallow copy so later attempt counting stays independent of the
		// primary queue entry.
		p.retry = append(p.retry, ex)
	}

	p.last = &CheckResult{
		Correct:       correct,
		CorrectAnswer: ex.CorrectAnswer,
		Explanation:   ex.Explanation,
		AttemptCount:  p.attempts[ex.ID],
	}
	p.state = StateFeedback

	return p.last, nil
}

// markCompletedLocked adds to the completed set (monotonic, duplicate-free)
// and persists local-first.
func (p *Progression) markCompletedLocked(ex Exercise, now time.Time) {
	if p.completed[ex.ID] {
		return
	}
	p.completed[ex.ID] = true
	p.writeCompletedLocked()

	if p.cfg.Progress == nil || p.cfg.Token() == "" {
		return
	}

	rec := ProgressRecord{
		UserID:      p.cfg.UserID,
		Type:        ProgressTypeLanguageExercise,
		ExerciseID:  ex.ID,
		Score:       1,
		CompletedAt: now,
	}
	p.remote.Add(1)
	go func() {
		defer p.remote.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.cfg.Progress.SaveCompletion(ctx, rec); err != nil {
			// Local cache already holds the completion; the next
			// reconciliation from another device will not lose it.
			p.cfg.Logger.Warn("remote progress write failed",
				zap.String("exerciseId", rec.ExerciseID), zap.Error(err))
		}
	}()
}

func (p *Progression) writeCompletedLocked() {
	ids := make([]string, 0, len(p.completed))
	for id := range p.completed {
		ids = append(ids, id)
	}
	if err := p.cfg.Cache.Set(CompletedExercisesKey(p.cfg.UserID), ids); err != nil {
		p.cfg.Logger.Warn("local progress write failed", zap.Error(err))
	}
}

func (p *Progression) emitStatisticLocked(stat ExerciseStatistic) {
	if p.cfg.Statistics != nil && p.cfg.Token() != "" {
		p.remote.Add(1)
		go func() {
			defer p.remote.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := p.cfg.Statistics.SaveExerciseStatistic(ctx, stat); err != nil {
				p.cfg.Logger.Warn("remote statistic write failed", zap.Error(err))
				p.appendLocal(PendingStatisticsKey(p.cfg.UserID), stat)
			}
		}()
		return
	}

	p.appendLocal(ExerciseStatisticsKey(p.cfg.UserID), stat)
}

// appendLocal appends to a cached statistic list, truncating the oldest
// entries past MaxLocalStatistics.
func (p *Progression) appendLocal(key string, stat ExerciseStatistic) {
	p.localMu.Lock()
	defer p.localMu.Unlock()

	var list []ExerciseStatistic
	p.cfg.Cache.Get(key, &list)
	list = append(list, stat)
	if len(list) > MaxLocalStatistics {
		list = list[len(list)-MaxLocalStatistics:]
	}
	if err := p.cfg.Cache.Set(key, list); err != nil {
		p.cfg.Logger.Warn("local statistic write failed", zap.Error(err))
	}
}

// NextExercise advances past the feedback view: next primary exercise, then
// the retry queue, and only when both are drained the module is complete.
func (p *Progression) NextExercise() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrSessionClosed
	}
	if p.state != StateFeedback {
		return ErrNoFeedback
	}

	p.idx++
	if p.idx >= len(p.queue) {
		if len(p.retry) > 0 {
			// The retry queue becomes the primary queue: every exercise must
			// be answered correctly at least once before the module ends.
			p.queue = p.retry
			p.retry = nil
			p.idx = 0
		} else {
			p.state = StateModuleComplete
			return nil
		}
	}

	p.presentLocked()
	return nil
}

// NextModule advances to the following module window, or to the terminal
// all-complete state when the catalog is exhausted.
func (p *Progression) NextModule(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrSessionClosed
	}
	if p.state != StateModuleComplete {
		return ErrModuleNotDone
	}

	if !p.cfg.Catalog.HasModule(p.module + 1) {
		p.state = StateAllComplete
		return nil
	}

	p.module++
	return p.loadModuleLocked(ctx)
}

// Reconcile merges the remote completed set into the local one. The merge is
// a union and is only adopted when it grows the local set, so a partial or
// stale remote response can never erase local progress. Network failure
// leaves local state authoritative.
func (p *Progression) Reconcile(ctx context.Context) error {
	if p.cfg.Progress == nil {
		return nil
	}

	records, err := p.cfg.Progress.FetchCompleted(ctx, p.cfg.UserID, ProgressTypeLanguageExercise)
	if err != nil {
		p.cfg.Logger.Debug("progress reconciliation skipped", zap.Error(err))
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// A fetch that resolves after teardown must not write anywhere.
	if p.closed {
		return nil
	}

	before := len(p.completed)
	for _, rec := range records {
		p.completed[rec.ExerciseID] = true
	}

	if len(p.completed) > before {
		p.writeCompletedLocked()
	}
	return nil
}

// FlushPending retries statistics that failed their remote write in an
// earlier session. Successes are removed from the pending list; failures stay
// for the next start.
func (p *Progression) FlushPending(ctx context.Context) error {
	if p.cfg.Statistics == nil || p.cfg.Token() == "" {
		return nil
	}

	key := PendingStatisticsKey(p.cfg.UserID)

	p.localMu.Lock()
	var pending []ExerciseStatistic
	ok, err := p.cfg.Cache.Get(key, &pending)
	p.localMu.Unlock()
	if err != nil || !ok || len(pending) == 0 {
		return err
	}

	var failed []ExerciseStatistic
	for _, stat := range pending {
		if err := p.cfg.Statistics.SaveExerciseStatistic(ctx, stat); err != nil {
			failed = append(failed, stat)
		}
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil
	}

	p.localMu.Lock()
	defer p.localMu.Unlock()
	if len(failed) == 0 {
		return p.cfg.Cache.Delete(key)
	}
	return p.cfg.Cache.Set(key, failed)
}

// Close tears the session down; in-flight remote writes finish but late
// responses no longer mutate state.
func (p *Progression) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// WaitRemote blocks until background remote writes have drained. Tests use it
// to assert on store contents deterministically.
func (p *Progression) WaitRemote() {
	p.remote.Wait()
}
