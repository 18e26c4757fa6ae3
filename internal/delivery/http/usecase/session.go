package usecase

import (
	"sync"
	"time"

	httpEntity "github.com/juniortalk/juniortalk-be/internal/delivery/http/entity"
	"github.com/juniortalk/juniortalk-be/internal/pkg/llm"
)

// timerHandle lets tests stand in for real timers.
type timerHandle interface {
	Stop() bool
}

// practiceSession is one live scenario run. mu guards every mutable field;
// the generation counter invalidates async work (turn replies, hint timers,
// speech and avatar tasks) started before a restart or exit.
type practiceSession struct {
	mu sync.Mutex

	id           string
	scenario     httpEntity.Scenario
	difficulty   httpEntity.DifficultyLevel
	voice        httpEntity.VoiceGender
	state        httpEntity.SessionState
	turns        []httpEntity.Turn
	conversation llm.Conversation
	score        int
	completion   *httpEntity.CompletionSummary
	hintsVisible bool
	hintTimer    timerHandle
	generation   int
	avatarURL    string
	createdAt    time.Time
}

// disarmHintTimer stops the pending hint reveal, if any. Caller holds mu.
func (s *practiceSession) disarmHintTimer() {
	if s.hintTimer != nil {
		s.hintTimer.Stop()
		s.hintTimer = nil
	}
}

// findTurn looks a turn up by its stable id. Caller holds mu.
func (s *practiceSession) findTurn(id string) *httpEntity.Turn {
	for i := range s.turns {
		if s.turns[i].ID == id {
			return &s.turns[i]
		}
	}
	return nil
}

// latestModelTurn returns the newest turn if it is a model turn. Hints are
// only ever eligible on the very last message of the transcript.
func (s *practiceSession) latestModelTurn() *httpEntity.Turn {
	if len(s.turns) == 0 {
		return nil
	}
	last := &s.turns[len(s.turns)-1]
	if last.Role != httpEntity.RoleModel {
		return nil
	}
	return last
}

// view snapshots the session for delivery. Caller holds mu.
func (s *practiceSession) view() *httpEntity.SessionView {
	turns := make([]httpEntity.Turn, len(s.turns))
	copy(turns, s.turns)

	view := &httpEntity.SessionView{
		ID:           s.id,
		Scenario:     s.scenario,
		Difficulty:   s.difficulty,
		State:        s.state,
		Turns:        turns,
		SessionScore: s.score,
		HintsVisible: s.hintsVisible,
		Finished:     s.state == httpEntity.StateFinished,
		Completion:   s.completion,
		AvatarURL:    s.avatarURL,
		VoiceGender:  s.voice,
	}

	if s.hintsVisible {
		if turn := s.latestModelTurn(); turn != nil {
			view.Hints = turn.Hints
		}
	}

	return view
}
