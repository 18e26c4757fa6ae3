package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	httpEntity "github.com/juniortalk/juniortalk-be/internal/delivery/http/entity"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/repository"
	"github.com/juniortalk/juniortalk-be/internal/pkg/audio"
	"github.com/juniortalk/juniortalk-be/internal/pkg/llm"
	"github.com/juniortalk/juniortalk-be/internal/pkg/mapper"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultHintDelay  = 30 * time.Second
	defaultTurnScore  = 2
	lowScoreThreshold = 5
	completionBonus   = 50
	avatarTimeout     = 60 * time.Second
)

var (
	ErrSessionNotFound = errors.New("practice session not found")
	ErrSessionBusy     = errors.New("a reply is already on the way")
	ErrSessionFinished = errors.New("practice session already finished")
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrTurnFailed      = errors.New("the tutor did not answer, try again")
	ErrStaleReply      = errors.New("session changed before the reply arrived")
	ErrTurnNotFound    = errors.New("turn not found")
)

type PracticeUsecase interface {
	ListScenarios(ctx context.Context) ([]httpEntity.Scenario, error)
	StartSession(ctx context.Context, request *httpEntity.StartSessionRequest) (*httpEntity.SessionView, error)
	GetSession(ctx context.Context, sessionID string) (*httpEntity.SessionView, error)
	SendMessage(ctx context.Context, sessionID, message string) (*httpEntity.SessionView, error)
	RestartSession(ctx context.Context, sessionID string) (*httpEntity.SessionView, error)
	ExitSession(ctx context.Context, sessionID string) error
	SpeechClipPath(ctx context.Context, sessionID, turnID string) (string, error)
	Stats(ctx context.Context) httpEntity.StatsView
}

type PracticeConfig struct {
	DB            *gorm.DB
	Log           *logrus.Logger
	Repository    repository.ScenarioRepository
	Conversations llm.ConversationFactory
	Avatars       llm.AvatarGenerator
	Speech        *audio.Synthesizer
	HintDelay     time.Duration
}

type practiceUsecase struct {
	cfg      PracticeConfig
	stats    *GlobalStats
	now      func() time.Time
	hintDelay time.Duration

	// startTimer is swapped out in tests to fire deterministically.
	startTimer func(d time.Duration, f func()) timerHandle

	mu       sync.Mutex
	sessions map[string]*practiceSession
}

func NewPracticeUsecase(cfg PracticeConfig) PracticeUsecase {
	if cfg.HintDelay <= 0 {
		cfg.HintDelay = defaultHintDelay
	}
	if cfg.Log == nil {
		cfg.Log = logrus.New()
	}
	return &practiceUsecase{
		cfg:       cfg,
		stats:     NewGlobalStats(),
		now:       time.Now,
		hintDelay: cfg.HintDelay,
		startTimer: func(d time.Duration, f func()) timerHandle {
			return time.AfterFunc(d, f)
		},
		sessions: make(map[string]*practiceSession),
	}
}

func (u *practiceUsecase) ListScenarios(ctx context.Context) ([]httpEntity.Scenario, error) {
	records, err := u.cfg.Repository.FindAll(u.cfg.DB)
	if err != nil {
		u.cfg.Log.Errorf("failed to list scenarios: %v", err)
		return nil, err
	}

	scenarios := make([]httpEntity.Scenario, 0, len(records))
	for i := range records {
		scenarios = append(scenarios, mapper.ConvertToScenario(&records[i]))
	}
	return scenarios, nil
}

func (u *practiceUsecase) StartSession(ctx context.Context, request *httpEntity.StartSessionRequest) (*httpEntity.SessionView, error) {
	record, err := u.cfg.Repository.FindByScenarioID(u.cfg.DB, request.ScenarioID)
	if err != nil {
		u.cfg.Log.Warnf("unknown scenario %s: %v", request.ScenarioID, err)
		return nil, fmt.Errorf("scenario %s not found", request.ScenarioID)
	}
	scenario := mapper.ConvertToScenario(record)

	voice := request.VoiceGender
	if voice == "" {
		voice = httpEntity.VoiceFemale
	}

	session := &practiceSession{
		id:           uuid.NewString(),
		scenario:     scenario,
		difficulty:   request.Difficulty,
		voice:        voice,
		state:        httpEntity.StateInitializing,
		conversation: u.cfg.Conversations.NewConversation(CompileInstruction(scenario, request.Difficulty)),
		createdAt:    u.now(),
	}

	u.mu.Lock()
	u.sessions[session.id] = session
	u.mu.Unlock()

	u.generateAvatar(session, 0)
	u.openConversation(ctx, session, 0)

	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view(), nil
}

// openConversation performs the opening exchange. The opening earns no
// points; scoring starts with the student's first message. On failure the
// session still becomes usable so the student can retry by sending.
func (u *practiceUsecase) openConversation(ctx context.Context, s *practiceSession, gen int) {
	s.mu.Lock()
	scenario := s.scenario
	difficulty := s.difficulty
	conversation := s.conversation
	s.mu.Unlock()

	reply, err := conversation.Send(ctx, CompileOpeningRequest(scenario, difficulty))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return
	}

	if err != nil {
		u.cfg.Log.Errorf("failed to open session %s: %v", s.id, err)
		s.state = httpEntity.StateAwaitingUser
		return
	}

	turn := u.newModelTurn(reply)
	s.turns = append(s.turns, turn)
	s.state = httpEntity.StateAwaitingUser
	u.armHintTimer(s, gen)
	u.pregenSpeech(s, gen, turn.ID, turn.Text)
}

func (u *practiceUsecase) GetSession(ctx context.Context, sessionID string) (*httpEntity.SessionView, error) {
	session, err := u.find(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view(), nil
}

func (u *practiceUsecase) SendMessage(ctx context.Context, sessionID, message string) (*httpEntity.SessionView, error) {
	session, err := u.find(sessionID)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	session.mu.Lock()
	switch session.state {
	case httpEntity.StateFinished:
		session.mu.Unlock()
		return nil, ErrSessionFinished
	case httpEntity.StateInitializing, httpEntity.StateAwaitingModel:
		session.mu.Unlock()
		return nil, ErrSessionBusy
	}

	session.disarmHintTimer()
	session.hintsVisible = false

	userTurn := httpEntity.Turn{
		ID:        uuid.NewString(),
		Role:      httpEntity.RoleUser,
		Text:      trimmed,
		CreatedAt: u.now(),
	}
	session.turns = append(session.turns, userTurn)
	session.state = httpEntity.StateAwaitingModel

	gen := session.generation
	conversation := session.conversation
	session.mu.Unlock()

	reply, sendErr := conversation.Send(ctx, trimmed)

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.generation != gen {
		// restarted or closed while the model was thinking
		return nil, ErrStaleReply
	}

	if sendErr != nil {
		u.cfg.Log.Errorf("turn failed for session %s: %v", session.id, sendErr)
		session.state = httpEntity.StateAwaitingUser
		return nil, ErrTurnFailed
	}

	earned := reply.EncouragementScore
	if earned == 0 {
		// absent and zero both fall back to the baseline score
		earned = defaultTurnScore
	}

	if sent := session.findTurn(userTurn.ID); sent != nil {
		sent.Correction = reply.GrammarFeedback
		sent.BetterWay = reply.BetterWayToSay
		score := earned
		sent.Score = &score
	}

	modelTurn := u.newModelTurn(reply)
	session.turns = append(session.turns, modelTurn)

	session.score += earned
	u.stats.AddPoints(earned)

	if reply.IsConversationFinished {
		session.score += completionBonus
		u.stats.AddPoints(completionBonus)
		u.stats.MarkCompleted()
		session.state = httpEntity.StateFinished
		session.completion = &httpEntity.CompletionSummary{
			SessionScore: session.score,
			Bonus:        completionBonus,
		}
	} else {
		session.state = httpEntity.StateAwaitingUser
		if earned <= lowScoreThreshold {
			session.hintsVisible = true
		} else {
			u.armHintTimer(session, gen)
		}
	}

	u.pregenSpeech(session, gen, modelTurn.ID, modelTurn.Text)

	return session.view(), nil
}

func (u *practiceUsecase) RestartSession(ctx context.Context, sessionID string) (*httpEntity.SessionView, error) {
	session, err := u.find(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	session.generation++
	gen := session.generation
	session.disarmHintTimer()
	session.turns = nil
	session.score = 0
	session.completion = nil
	session.hintsVisible = false
	session.state = httpEntity.StateInitializing
	session.conversation = u.cfg.Conversations.NewConversation(CompileInstruction(session.scenario, session.difficulty))
	session.mu.Unlock()

	u.openConversation(ctx, session, gen)

	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view(), nil
}

func (u *practiceUsecase) ExitSession(ctx context.Context, sessionID string) error {
	u.mu.Lock()
	session, ok := u.sessions[sessionID]
	if ok {
		delete(u.sessions, sessionID)
	}
	u.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.generation++
	session.disarmHintTimer()
	return nil
}

func (u *practiceUsecase) SpeechClipPath(ctx context.Context, sessionID, turnID string) (string, error) {
	if u.cfg.Speech == nil {
		return "", errors.New("speech synthesis not configured")
	}

	session, err := u.find(sessionID)
	if err != nil {
		return "", err
	}

	session.mu.Lock()
	var text string
	if turn := session.findTurn(turnID); turn != nil && turn.Role == httpEntity.RoleModel {
		text = turn.Text
	}
	session.mu.Unlock()

	if text == "" {
		return "", ErrTurnNotFound
	}

	if _, err := u.cfg.Speech.GenerateClip(text); err != nil {
		u.cfg.Log.Errorf("speech clip for session %s: %v", sessionID, err)
		return "", err
	}
	return u.cfg.Speech.ClipPath(text)
}

func (u *practiceUsecase) Stats(ctx context.Context) httpEntity.StatsView {
	return u.stats.View()
}

func (u *practiceUsecase) find(sessionID string) (*practiceSession, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	session, ok := u.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (u *practiceUsecase) newModelTurn(reply *httpEntity.TurnReply) httpEntity.Turn {
	return httpEntity.Turn{
		ID:          uuid.NewString(),
		Role:        httpEntity.RoleModel,
		Text:        reply.Reply,
		Translation: reply.ChineseTranslation,
		Hints:       reply.SuggestedReplies,
		CreatedAt:   u.now(),
	}
}

// armHintTimer replaces any pending timer so at most one is ever live per
// session. Caller holds s.mu.
func (u *practiceUsecase) armHintTimer(s *practiceSession, gen int) {
	s.disarmHintTimer()
	s.hintTimer = u.startTimer(u.hintDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen || s.state != httpEntity.StateAwaitingUser {
			return
		}
		s.hintsVisible = true
	})
}

// pregenSpeech warms the clip cache for a model reply in the background and
// links the turn to its clip endpoint. Failures are silent; the speech
// endpoint regenerates on demand.
func (u *practiceUsecase) pregenSpeech(s *practiceSession, gen int, turnID, text string) {
	if u.cfg.Speech == nil {
		return
	}
	go func() {
		if _, err := u.cfg.Speech.GenerateClip(text); err != nil {
			u.cfg.Log.Debugf("speech pregen for session %s: %v", s.id, err)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen {
			return
		}
		if turn := s.findTurn(turnID); turn != nil {
			turn.AudioURL = fmt.Sprintf("/practice/sessions/%s/turns/%s/speech", s.id, turnID)
		}
	}()
}

// generateAvatar runs detached; it only ever sets cosmetic state and a
// session works fine without it.
func (u *practiceUsecase) generateAvatar(s *practiceSession, gen int) {
	if u.cfg.Avatars == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), avatarTimeout)
		defer cancel()

		image, err := u.cfg.Avatars.GenerateAvatar(ctx, s.scenario.Title, s.scenario.Description, s.voice)
		if err != nil {
			u.cfg.Log.Debugf("avatar for session %s: %v", s.id, err)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen {
			return
		}
		s.avatarURL = image
	}()
}
