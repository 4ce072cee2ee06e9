package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrQuizEmpty         = errors.New("engine: quiz set has no questions")
	ErrQuizAlreadySolved = errors.New("engine: quiz set already completed")
	ErrQuizNotActive     = errors.New("engine: quiz session is not active")
)

// FinishReason explains why a quiz session ended.
type FinishReason string

const (
	FinishCompleted FinishReason = "completed"
	FinishTimeout   FinishReason = "timeout"
	FinishAbandoned FinishReason = "abandoned"
)

// QuizResult is handed to OnComplete exactly once per session.
type QuizResult struct {
	Reason    FinishReason
	Statistic QuizStatistic
}

// QuizConfig wires a quiz session. Statistics and Token are optional; without
// them results stay in the local cache only.
type QuizConfig struct {
	UserID     uint
	Set        QuizSet
	Cache      LocalCache
	Statistics StatisticsStore
	Token      TokenSource
	Logger     *zap.Logger
	Now        func() time.Time

	// TickInterval drives the countdown goroutine. Zero means
	// DefaultTickInterval; a negative value disables the internal ticker so
	// tests and embedders can call Tick themselves.
	TickInterval time.Duration

	// CaseInsensitive relaxes text-input grading. Multiple-choice answers are
	// always compared exactly.
	CaseInsensitive bool

	// OnComplete fires once when the session finishes for any reason.
	OnComplete func(QuizResult)

	// OnTick fires after every countdown step with the seconds remaining.
	OnTick func(remaining int)
}

// QuizSession runs one timed attempt at a quiz set. Submission of the result
// is at most once: the finishing and submitted guards make the last-question
// answer and a concurrent timer expiry race safe.
type QuizSession struct {
	cfg QuizConfig

	mu        sync.Mutex
	active    bool
	finishing bool
	submitted bool

	idx       int
	score     int
	remaining int
	startedAt time.Time

	stop   chan struct{}
	remote sync.WaitGroup
}

// DefaultTickInterval is the countdown resolution: one second per tick.
const DefaultTickInterval = time.Second

func NewQuizSession(cfg QuizConfig) *QuizSession {
	if cfg.Token == nil {
		cfg.Token = NoToken
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &QuizSession{cfg: cfg}
}

// AlreadySolved checks the local solved markers first and only then the
// remote store, so the common repeat case costs no network round trip.
func (s *QuizSession) AlreadySolved(ctx context.Context) (bool, error) {
	var solved []string
	if ok, err := s.cfg.Cache.Get(SolvedQuizzesKey(s.cfg.UserID), &solved); err == nil && ok {
		for _, id := range solved {
			if id == s.cfg.Set.ID {
				return true, nil
			}
		}
	}

	if s.cfg.Statistics == nil || s.cfg.Token() == "" {
		return false, nil
	}
	return s.cfg.Statistics.HasQuizStatistic(ctx, s.cfg.UserID, s.cfg.Set.ID)
}

// Start begins the attempt, or restarts it from the first question when one is
// already running. A set the learner has already completed refuses to start
// with ErrQuizAlreadySolved.
func (s *QuizSession) Start(ctx context.Context) error {
	if len(s.cfg.Set.Questions) == 0 {
		return ErrQuizEmpty
	}

	solved, err := s.AlreadySolved(ctx)
	if err != nil {
		s.cfg.Logger.Debug("completed check failed, allowing start", zap.Error(err))
	} else if solved {
		return ErrQuizAlreadySolved
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Starting mid-attempt restarts the session from scratch; callers that
	// want to resume instead must gate on Active.
	if s.active {
		close(s.stop)
	}

	s.active = true
	s.finishing = false
	s.submitted = false
	s.idx = 0
	s.score = 0
	s.remaining = s.cfg.Set.TimeLimitSeconds
	s.startedAt = s.cfg.Now()
	s.stop = make(chan struct{})

	if s.cfg.TickInterval > 0 {
		go s.run(s.stop)
	}
	return nil
}

func (s *QuizSession) run(stop chan struct{}) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick advances the countdown one second and finishes the session on expiry.
// A tick landing after the session has finished is a no-op.
func (s *QuizSession) Tick() {
	s.mu.Lock()

	if !s.active || s.finishing {
		s.mu.Unlock()
		return
	}

	s.remaining--
	remaining := s.remaining
	onTick := s.cfg.OnTick

	var result *QuizResult
	if remaining <= 0 {
		remaining = 0
		result = s.finishLocked(FinishTimeout)
	}
	s.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	s.deliver(result)
}

// deliver invokes OnComplete outside the session lock so the callback may
// call back into the session.
func (s *QuizSession) deliver(result *QuizResult) {
	if result != nil && s.cfg.OnComplete != nil {
		s.cfg.OnComplete(*result)
	}
}

func (s *QuizSession) match(given, correct string, qtype QuizQuestionType) bool {
	given = strings.TrimSpace(given)
	correct = strings.TrimSpace(correct)
	if qtype == TextInput && s.cfg.CaseInsensitive {
		return strings.EqualFold(given, correct)
	}
	return given == correct
}

// SubmitAnswer grades the current question and moves to the next one;
// answering the final question finishes the session. Answers are committed on
// submission and cannot be revised.
func (s *QuizSession) SubmitAnswer(answer string) (correct bool, err error) {
	if strings.TrimSpace(answer) == "" {
		return false, ErrNothingToCheck
	}

	s.mu.Lock()

	if !s.active || s.finishing {
		s.mu.Unlock()
		return false, ErrQuizNotActive
	}

	q := s.cfg.Set.Questions[s.idx]
	correct = s.match(answer, q.CorrectAnswer, q.Type)
	if correct {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		s.score += points
	}

	var result *QuizResult
	s.idx++
	if s.idx >= len(s.cfg.Set.Questions) {
		result = s.finishLocked(FinishCompleted)
	}
	s.mu.Unlock()

	s.deliver(result)
	return correct, nil
}

// Abandon ends the session without recording a result, so the learner can
// retry later.
func (s *QuizSession) Abandon() {
	s.mu.Lock()

	if !s.active || s.finishing {
		s.mu.Unlock()
		return
	}
	s.finishing = true
	s.active = false
	close(s.stop)
	s.mu.Unlock()

	s.deliver(&QuizResult{Reason: FinishAbandoned})
}

// finishLocked is the single exit path for completed and timed-out sessions.
// The finishing guard makes it idempotent against the submit/timeout race.
func (s *QuizSession) finishLocked(reason FinishReason) *QuizResult {
	if s.finishing {
		return nil
	}
	s.finishing = true
	s.active = false
	close(s.stop)

	total := 0
	for _, q := range s.cfg.Set.Questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		total += points
	}

	// Round half up, so 2/3 reports 67 rather than the truncated 66.
	percentage := 0
	if total > 0 {
		percentage = (s.score*100 + total/2) / total
	}

	now := s.cfg.Now()
	stat := QuizStatistic{
		UserID:           s.cfg.UserID,
		QuizSetID:        s.cfg.Set.ID,
		QuizTitle:        s.cfg.Set.Title,
		Score:            s.score,
		TotalPoints:      total,
		Percentage:       percentage,
		TimeSpentSeconds: int(now.Sub(s.startedAt).Seconds()),
		CompletedAt:      now,
	}

	s.submitResultLocked(stat)

	return &QuizResult{Reason: reason, Statistic: stat}
}

// submitResultLocked marks the set solved locally before any network write so
// a crash mid-submit still blocks a duplicate attempt, then persists the
// statistic remote-first when credentialed.
func (s *QuizSession) submitResultLocked(stat QuizStatistic) {
	if s.submitted {
		return
	}
	s.submitted = true

	var solved []string
	s.cfg.Cache.Get(SolvedQuizzesKey(s.cfg.UserID), &solved)
	for _, id := range solved {
		if id == stat.QuizSetID {
			return
		}
	}
	solved = append(solved, stat.QuizSetID)
	if err := s.cfg.Cache.Set(SolvedQuizzesKey(s.cfg.UserID), solved); err != nil {
		s.cfg.Logger.Warn("local solved marker write failed", zap.Error(err))
	}

	if s.cfg.Statistics != nil && s.cfg.Token() != "" {
		s.remote.Add(1)
		go func() {
			defer s.remote.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.cfg.Statistics.SaveQuizStatistic(ctx, stat); err != nil {
				s.cfg.Logger.Warn("remote quiz result write failed",
					zap.String("quizSetId", stat.QuizSetID), zap.Error(err))
				s.appendLocal(stat)
			}
		}()
		return
	}

	s.appendLocal(stat)
}

func (s *QuizSession) appendLocal(stat QuizStatistic) {
	key := QuizStatisticsKey(s.cfg.UserID)
	var list []QuizStatistic
	s.cfg.Cache.Get(key, &list)
	list = append(list, stat)
	if len(list) > MaxLocalStatistics {
		list = list[len(list)-MaxLocalStatistics:]
	}
	if err := s.cfg.Cache.Set(key, list); err != nil {
		s.cfg.Logger.Warn("local quiz result write failed", zap.Error(err))
	}
}

func (s *QuizSession) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *QuizSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *QuizSession) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// CurrentQuestion returns a copy of the question awaiting an answer, or nil
// when the session is not active.
func (s *QuizSession) CurrentQuestion() *QuizQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || s.idx >= len(s.cfg.Set.Questions) {
		return nil
	}
	q := s.cfg.Set.Questions[s.idx]
	return &q
}

// QuestionIndex reports the zero-based index of the current question.
func (s *QuizSession) QuestionIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx
}

// WaitRemote blocks until the background result write has drained.
func (s *QuizSession) WaitRemote() {
	s.remote.Wait()
}
