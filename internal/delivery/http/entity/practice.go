package entity

import "time"

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "Easy"
	DifficultyMedium DifficultyLevel = "Medium"
	DifficultyHard   DifficultyLevel = "Hard"
)

func (d DifficultyLevel) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type SessionState string

const (
	StateInitializing  SessionState = "initializing"
	StateAwaitingModel SessionState = "awaiting_model"
	StateAwaitingUser  SessionState = "awaiting_user"
	StateFinished      SessionState = "finished"
)

type VoiceGender string

const (
	VoiceFemale VoiceGender = "female"
	VoiceMale   VoiceGender = "male"
)

// Scenario is one catalog entry as served to clients.
type Scenario struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Emoji         string          `json:"emoji"`
	Description   string          `json:"description"`
	Difficulty    DifficultyLevel `json:"difficulty"`
	InitialPrompt string          `json:"initial_prompt"`
	Color         string          `json:"color"`
}

// TurnReply is the structured contract every model exchange must satisfy.
// Optional fields stay pointers so "absent" never collapses into "".
type TurnReply struct {
	Reply                  string   `json:"reply" validate:"required"`
	ChineseTranslation     string   `json:"chinese_translation" validate:"required"`
	GrammarFeedback        *string  `json:"grammar_feedback"`
	BetterWayToSay         *string  `json:"better_way_to_say"`
	EncouragementScore     int      `json:"encouragement_score"`
	SuggestedReplies       []string `json:"suggested_replies" validate:"required,min=1,dive,required"`
	IsConversationFinished bool     `json:"is_conversation_finished"`
}

// Turn is one message of a session transcript. Correction, better-way and
// score are attached to a user turn only after the paired model reply lands.
type Turn struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Text        string    `json:"text"`
	Translation string    `json:"translation,omitempty"`
	Correction  *string   `json:"correction,omitempty"`
	BetterWay   *string   `json:"better_way,omitempty"`
	Hints       []string  `json:"hints,omitempty"`
	Score       *int      `json:"score,omitempty"`
	AudioURL    string    `json:"audio_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type StartSessionRequest struct {
	ScenarioID  string          `json:"scenario_id" validate:"required"`
	Difficulty  DifficultyLevel `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	VoiceGender VoiceGender     `json:"voice_gender" validate:"omitempty,oneof=female male"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type CompletionSummary struct {
	SessionScore int `json:"session_score"`
	Bonus        int `json:"bonus"`
}

type SessionView struct {
	ID           string             `json:"id"`
	Scenario     Scenario           `json:"scenario"`
	Difficulty   DifficultyLevel    `json:"difficulty"`
	State        SessionState       `json:"state"`
	Turns        []Turn             `json:"turns"`
	SessionScore int                `json:"session_score"`
	HintsVisible bool               `json:"hints_visible"`
	Hints        []string           `json:"hints,omitempty"`
	Finished     bool               `json:"finished"`
	Completion   *CompletionSummary `json:"completion,omitempty"`
	AvatarURL    string             `json:"avatar_url,omitempty"`
	VoiceGender  VoiceGender        `json:"voice_gender"`
}

type StatsView struct {
	Points     int    `json:"points"`
	Level      int    `json:"level"`
	LevelTitle string `json:"level_title"`
	Streak     int    `json:"streak"`
}
