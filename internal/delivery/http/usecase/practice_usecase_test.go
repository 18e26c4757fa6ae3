package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	httpEntity "github.com/juniortalk/juniortalk-be/internal/delivery/http/entity"
	dbEntity "github.com/juniortalk/juniortalk-be/internal/entity"
	"github.com/juniortalk/juniortalk-be/internal/pkg/llm"
	"gorm.io/gorm"
)

type scriptedReply struct {
	reply *httpEntity.TurnReply
	err   error
	gate  chan struct{} // when set, Send blocks until the gate closes
}

type fakeConversation struct {
	mu          sync.Mutex
	instruction string
	script      []scriptedReply
	sent        []string
}

func (c *fakeConversation) Send(_ context.Context, message string) (*httpEntity.TurnReply, error) {
	c.mu.Lock()
	c.sent = append(c.sent, message)
	if len(c.script) == 0 {
		c.mu.Unlock()
		return nil, errors.New("unexpected send: " + message)
	}
	next := c.script[0]
	c.script = c.script[1:]
	c.mu.Unlock()

	if next.gate != nil {
		<-next.gate
	}
	return next.reply, next.err
}

func (c *fakeConversation) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

type fakeFactory struct {
	mu    sync.Mutex
	queue [][]scriptedReply
	made  []*fakeConversation
}

func (f *fakeFactory) NewConversation(instruction string) llm.Conversation {
	f.mu.Lock()
	defer f.mu.Unlock()

	var script []scriptedReply
	if len(f.queue) > 0 {
		script = f.queue[0]
		f.queue = f.queue[1:]
	}
	conv := &fakeConversation{instruction: instruction, script: script}
	f.made = append(f.made, conv)
	return conv
}

type fakeScenarioRepo struct {
	records []dbEntity.Scenario
}

func (r *fakeScenarioRepo) FindAll(_ *gorm.DB) ([]dbEntity.Scenario, error) {
	return r.records, nil
}

func (r *fakeScenarioRepo) FindByScenarioID(_ *gorm.DB, scenarioID string) (*dbEntity.Scenario, error) {
	for i := range r.records {
		if r.records[i].ScenarioID == scenarioID {
			return &r.records[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeScenarioRepo) Count(_ *gorm.DB) (int64, error) {
	return int64(len(r.records)), nil
}

type fakeTimer struct {
	mu      sync.Mutex
	stopped bool
	fn      func()
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	live := !t.stopped
	t.stopped = true
	return live
}

// fire runs the callback only if the timer is still live, matching the
// guarantee time.AfterFunc gives after a successful Stop.
func (t *fakeTimer) fire() {
	t.mu.Lock()
	live := !t.stopped
	t.stopped = true
	t.mu.Unlock()
	if live {
		t.fn()
	}
}

func (t *fakeTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type timerRecorder struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (r *timerRecorder) last(t *testing.T) *fakeTimer {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.timers) == 0 {
		t.Fatalf("no timer was armed")
	}
	return r.timers[len(r.timers)-1]
}

func (r *timerRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

func reply(text string, score int, finished bool) *httpEntity.TurnReply {
	return &httpEntity.TurnReply{
		Reply:                  text,
		ChineseTranslation:     "中文翻译",
		EncouragementScore:     score,
		SuggestedReplies:       []string{"Yes, please!", "A burger.", "What do you have?"},
		IsConversationFinished: finished,
	}
}

func newTestUsecase(factory *fakeFactory) (*practiceUsecase, *timerRecorder) {
	repo := &fakeScenarioRepo{
		records: []dbEntity.Scenario{
			{
				ScenarioID:    "food",
				Title:         "Ordering Food",
				Emoji:         "🍔",
				Description:   "Let's order some yummy food at a restaurant!",
				Difficulty:    "Easy",
				InitialPrompt: "Welcome to the Yummy Burger Shop! What would you like to eat?",
				Color:         "bg-orange-500",
			},
		},
	}

	uc := NewPracticeUsecase(PracticeConfig{
		Repository:    repo,
		Conversations: factory,
	}).(*practiceUsecase)

	recorder := &timerRecorder{}
	uc.startTimer = func(_ time.Duration, fn func()) timerHandle {
		ft := &fakeTimer{fn: fn}
		recorder.mu.Lock()
		recorder.timers = append(recorder.timers, ft)
		recorder.mu.Unlock()
		return ft
	}

	return uc, recorder
}

func startFoodSession(t *testing.T, uc *practiceUsecase) *httpEntity.SessionView {
	t.Helper()
	view, err := uc.StartSession(context.Background(), &httpEntity.StartSessionRequest{
		ScenarioID: "food",
		Difficulty: httpEntity.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	return view
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestStartSessionOpensConversation(t *testing.T) {
	factory := &fakeFactory{queue: [][]scriptedReply{
		{{reply: reply("Welcome! What would you like to eat?", 7, false)}},
	}}
	uc, timers := newTestUsecase(factory)

	view := startFoodSession(t, uc)

	if view.State != httpEntity.StateAwaitingUser {
		t.Fatalf("state = %s, want %s", view.State, httpEntity.StateAwaitingUser)
	}
	if len(view.Turns) != 1 || view.Turns[0].Role != httpEntity.RoleModel {
		t.Fatalf("expected one model turn, got %+v", view.Turns)
	}
	if view.SessionScore != 0 {
		t.Fatalf("opening must not earn points, got %d", view.SessionScore)
	}
	if view.HintsVisible {
		t.Fatalf("hints must start hidden")
	}
	if timers.count() != 1 || timers.last(t).isStopped() {
		t.Fatalf("expected one live hint timer after opening")
	}

	opening := factory.made[0].sent[0]
	if !strings.Contains(opening, "Yummy Burger Shop") {
		t.Fatalf("opening request missing scenario seed line: %s", opening)
	}
}

func TestSendMessagePatchesUserTurn(t *testing.T) {
	feedback := "Say 'I am happy', not 'I is happy'."
	better := "I am very happy today!"
	modelReply := reply("That sounds great!", 7, false)
	modelReply.GrammarFeedback = &feedback
	modelReply.BetterWayToSay = &better

	factory := &fakeFactory{queue: [][]scriptedReply{
		{
			{reply: reply("Welcome!", 7, false)},
			{reply: modelReply},
		},
	}}
	uc, _ := newTestUsecase(factory)
	session := startFoodSession(t, uc)

	view, err := uc.SendMessage(context.Background(), session.ID, "I is happy")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if len(view.Turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(view.Turns))
	}

	userTurn := view.Turns[1]
	if userTurn.Role != httpEntity.RoleUser || userTurn.Text != "I is happy" {
		t.Fatalf("unexpected user turn: %+v", userTurn)
	}
	if userTurn.Correction == nil || *userTurn.Correction != feedback {
		t.Fatalf("user turn missing grammar feedback")
	}
	if userTurn.BetterWay == nil || *userTurn.BetterWay != better {
		t.Fatalf("user turn missing better-way suggestion")
	}
	if userTurn.Score == nil || *userTurn.Score != 7 {
		t.Fatalf("user turn score = %v, want 7", userTurn.Score)
	}

	if view.Turns[2].Role != httpEntity.RoleModel {
		t.Fatalf("last turn should be the model reply")
	}
	if view.SessionScore != 7 {
		t.Fatalf("session score = %d, want 7", view.SessionScore)
	}
	if got := uc.Stats(context.Background()).Points; got != 7 {
		t.Fatalf("global points = %d, want 7", got)
	}
}

func TestZeroScoreFallsBackToBaseline(t *testing.T) {
	factory := &fakeFactory{queue: [][]scriptedReply{
		{
			{reply: reply("Welcome!", 7, false)},
			{reply: reply("Nice!", 0, false)},
		},
	}}
	uc, _ := newTestUsecase(factory)
	session := startFoodSession(t, uc)

	view, err := uc.SendMessage(context.Background(), session.ID, "Hello")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if view.SessionScore != defaultTurnScore {
		t.Fatalf("session score = %d, want %d", view.SessionScore, defaultTurnScore)
	}
	if s := view.Turns[1].Score; s == nil || *s != defaultTurnScore {
		t.Fatalf("user turn score = %v, want %d", s, defaultTurnScore)
	}
}

func TestCompletionAwardsBonus(t *testing.T) {
	factory := &fakeFactory{queue: [][]scriptedReply{
		{
			{reply: reply("Welcome!", 7, false)},
			{reply: reply("Goodbye! Great job today!", 8, true)},
		},
	}}
	uc, timers := newTestUsecase(factory)
	session := startFoodSession(t, uc)

	view, err := uc.SendMessage(context.Background(), session.ID, "Bye bye!")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if view.State != httpEntity.StateFinished || !view.Finished {
		t.Fatalf("session should be finished, got state %s", view.State)
	}
	if view.SessionScore != 8+completionBonus {
		t.Fatalf("session score = %d, want %d", view.SessionScore, 8+completionBonus)
	}
	if view.Completion == nil || view.Completion.Bonus != completionBonus || view.Completion.SessionScore != 8+completionBonus {
		t.Fatalf("unexpected completion summary: %+v", view.Completion)
	}

	stats := uc.Stats(context.Background())
	if stats.Points != 8+completionBonus {
		t.Fatalf("global points = %d, want %d", stats.Points, 8+completionBonus)
	}
	if stats.Streak != 2 {
		t.Fatalf("streak = %d, want 2", stats.Streak)
	}

	if !timers.last(t).isStopped() {
		t.Fatalf("finished session must not keep a live hint timer")
	}

	if _, err := uc.SendMessage(context.Background(), session.ID, "One more?"); !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("send after finish = %v, want ErrSessionFinished", err)
	}
}

func TestLowScoreShowsHintsImmediately(t *testing.T) {
	factory := &fakeFactory{queue: [][]scriptedReply{
		{
			{reply: reply("Welcome!", 7, false)},
			{reply: reply("Almost! Try again.", lowScoreThreshold, false)},
			{reply: reply("Great sentence!", lowScoreThreshold + 1, false)},
		},
	}}
	uc, timers := newTestUsecase(factory)
	session := startFoodSession(t, uc)

	view, err := uc.SendMessage(context.Background(), session.ID, "me want burger")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if !view.HintsVisible {
		t.Fatalf("low score should reveal hints immediately")
	}
	if len(view.Hints) != 3 {
		t.Fatalf("hints should mirror suggested replies, got %v", view.Hints)
	}
	armed := timers.count()

	view, err = uc.SendMessage(context.Background(), session.ID, "I would like a burger, please.")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if view.HintsVisible {
		t.Fatalf("good score should hide hints again")
	}
	if timers.count() != armed+1 || timers.last(t).isStopped() {
		t.Fatalf("good score should arm a fresh hint timer")
	}
}

func TestHintTimerRevealsHints(t *testing.T) {
	factory := &fakeFactory{queue: [][]scriptedReply{
		{{reply: reply("Welcome!", 7, false)}},
	}}
	uc, timers := newTestUsecase(factory)
	session := startFoodSession(t, uc)

	timers.last(t).fire()

	view, err := uc.GetSession(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !view.HintsVisible || len(view.Hints) != 3 {
		t.Fatalf("timer should reveal hints, got visible=%v hints=%v", view.HintsVisible, view.Hints)
	}
}

func TestSendDisarmsPendingTimer(t *testing.T) {
	factory := &fakeFactory{queue: [][]scriptedReply{
		{
			{reply: reply("Welcome!", 7, false)},
			{reply: reply("Good!", 8, false)},
		},
	}}
	uc, timers := newTestUsecase(factory)
	session := startFoodSession(t, uc)

	opening := timers.last(t)
	if _, err := uc.SendMessage(context.Background(), session.ID, "Hello!"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if !opening.isStopped() {
		t.Fatalf("sending a message must disarm the pending hint timer")
	}
	if timers.count() != 2 || timers.last(t).isStopped() {
		t.Fatalf("a single fresh timer should be live after the exchange")
	}
}

func TestSendWhileReplyPendingIsRejected(t *testing.T) {
	gate := make(chan struct{})
	factory := &fakeFactory{queue: [][]scriptedReply{
		{
			{reply: reply("Welcome!", 7, false)},
			{reply: reply("Slow reply.", 6, false), gate: gate},
		},
	}}
	uc, _ := newTestUsecase(factory)
	session := startFoodSession(t, uc)

	done := make(chan error, 1)
	go func() {
		_, err := uc.SendMessage(context.Background(), session.ID, "first")
		done <- err
	}()

	conv := factory.made[0]
	waitFor(t, "first message to reach the model", func() bool { return conv.sentCount() == 2 })

	if _, err := uc.SendMessage(context.Background(), session.ID, "second"); !errors.Is(err, ErrSessionBusy) {
		t.Fatalf("concurrent send = %v, want ErrSessionBusy", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first send failed: %v", err)
	}
}

func TestRestartDiscardsInFlightReply(t *testing.T) {
	gate := make(chan struct{})
	factory := &fakeFactory{queue: [][]scriptedReply{
		{
			{reply: reply("Welcome!", 7, false)},
			{reply: reply("Stale reply.", 9, false), gate: gate},
		},
		{{reply: reply("Welcome back!", 7, false)}},
	}}
	uc, _ := newTestUsecase(factory)
	session := startFoodSession(t, uc)

	done := make(chan error, 1)
	go func() {
		_, err := uc.SendMessage(context.Background(), session.ID, "hello")
		done <- err
	}()

	conv := factory.made[0]
	waitFor(t, "message to reach the model", func() bool { return conv.sentCount() == 2 })

	view, err := uc.RestartSession(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("RestartSession: %v", err)
	}
	if len(view.Turns) != 1 || view.SessionScore != 0 {
		t.Fatalf("restart should reset transcript and score, got %d turns score %d", len(view.Turns), view.SessionScore)
	}
	if view.Turns[0].Text != "Welcome back!" {
		t.Fatalf("restart should open a fresh conversation, got %q", view.Turns[0].Text)
	}

	close(gate)
	if err := <-done; !errors.Is(err, ErrStaleReply) {
		t.Fatalf("in-flight send after restart = %v, want ErrStaleReply", err)
	}

	view, err = uc.GetSession(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if len(view.Turns) != 1 {
		t.Fatalf("stale reply leaked into transcript: %d turns", len(view.Turns))
	}
	if got := uc.Stats(context.Background()).Points; got != 0 {
		t.Fatalf("stale reply leaked into stats: %d points", got)
	}
}

func TestExitRemovesSession(t *testing.T) {
	factory := &fakeFactory{queue: [][]scriptedReply{
		{{reply: reply("Welcome!", 7, false)}},
	}}
	uc, timers := newTestUsecase(factory)
	session := startFoodSession(t, uc)

	if err := uc.ExitSession(context.Background(), session.ID); err != nil {
		t.Fatalf("ExitSession: %v", err)
	}
	if !timers.last(t).isStopped() {
		t.Fatalf("exit must disarm the hint timer")
	}

	if _, err := uc.GetSession(context.Background(), session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("get after exit = %v, want ErrSessionNotFound", err)
	}
	if err := uc.ExitSession(context.Background(), session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("double exit = %v, want ErrSessionNotFound", err)
	}
}

func TestTurnFailureKeepsUserTurnUnpatched(t *testing.T) {
	factory := &fakeFactory{queue: [][]scriptedReply{
		{
			{reply: reply("Welcome!", 7, false)},
			{err: errors.New("model unavailable")},
			{reply: reply("Back again!", 6, false)},
		},
	}}
	uc, _ := newTestUsecase(factory)
	session := startFoodSession(t, uc)

	if _, err := uc.SendMessage(context.Background(), session.ID, "Hello?"); !errors.Is(err, ErrTurnFailed) {
		t.Fatalf("failed turn = %v, want ErrTurnFailed", err)
	}

	view, err := uc.GetSession(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if view.State != httpEntity.StateAwaitingUser {
		t.Fatalf("failed turn should return the session to %s, got %s", httpEntity.StateAwaitingUser, view.State)
	}
	last := view.Turns[len(view.Turns)-1]
	if last.Role != httpEntity.RoleUser || last.Score != nil {
		t.Fatalf("failed turn should leave the user turn unpatched: %+v", last)
	}
	if view.SessionScore != 0 {
		t.Fatalf("failed turn must not earn points, got %d", view.SessionScore)
	}

	// the session stays usable
	if _, err := uc.SendMessage(context.Background(), session.ID, "Hello again!"); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestEmptyMessageRejected(t *testing.T) {
	factory := &fakeFactory{queue: [][]scriptedReply{
		{{reply: reply("Welcome!", 7, false)}},
	}}
	uc, _ := newTestUsecase(factory)
	session := startFoodSession(t, uc)

	if _, err := uc.SendMessage(context.Background(), session.ID, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("blank message = %v, want ErrEmptyMessage", err)
	}
}

func TestOpeningFailureLeavesSessionUsable(t *testing.T) {
	factory := &fakeFactory{queue: [][]scriptedReply{
		{
			{err: errors.New("model unavailable")},
			{reply: reply("Hello at last!", 6, false)},
		},
	}}
	uc, _ := newTestUsecase(factory)
	session := startFoodSession(t, uc)

	if session.State != httpEntity.StateAwaitingUser {
		t.Fatalf("state = %s, want %s", session.State, httpEntity.StateAwaitingUser)
	}
	if len(session.Turns) != 0 {
		t.Fatalf("failed opening should leave an empty transcript")
	}

	view, err := uc.SendMessage(context.Background(), session.ID, "Hi!")
	if err != nil {
		t.Fatalf("SendMessage after failed opening: %v", err)
	}
	if len(view.Turns) != 2 {
		t.Fatalf("expected user and model turns, got %d", len(view.Turns))
	}
}

func TestUnknownScenarioRejected(t *testing.T) {
	uc, _ := newTestUsecase(&fakeFactory{})

	_, err := uc.StartSession(context.Background(), &httpEntity.StartSessionRequest{
		ScenarioID: "spaceship",
		Difficulty: httpEntity.DifficultyEasy,
	})
	if err == nil {
		t.Fatalf("unknown scenario should be rejected")
	}
}

func TestListScenarios(t *testing.T) {
	uc, _ := newTestUsecase(&fakeFactory{})

	scenarios, err := uc.ListScenarios(context.Background())
	if err != nil {
		t.Fatalf("ListScenarios: %v", err)
	}
	if len(scenarios) != 1 || scenarios[0].ID != "food" {
		t.Fatalf("unexpected catalog: %+v", scenarios)
	}
	if scenarios[0].Difficulty != httpEntity.DifficultyEasy {
		t.Fatalf("difficulty = %s, want %s", scenarios[0].Difficulty, httpEntity.DifficultyEasy)
	}
}
