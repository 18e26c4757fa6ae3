package llm

import (
	"strings"
	"testing"

	"github.com/juniortalk/juniortalk-be/internal/pkg/validate"
)

const fullPayload = `{
	"reply": "Welcome! What would you like to eat?",
	"chinese_translation": "欢迎！你想吃点什么？",
	"grammar_feedback": "Say 'I would like', not 'I want like'.",
	"better_way_to_say": "I would like a burger, please.",
	"encouragement_score": 7,
	"suggested_replies": ["A burger, please!", "Do you have pizza?", "Just water, thanks."],
	"is_conversation_finished": false
}`

func TestParseTurnReply(t *testing.T) {
	reply, err := ParseTurnReply(fullPayload, validate.NewValidator())
	if err != nil {
		t.Fatalf("ParseTurnReply: %v", err)
	}

	if reply.Reply != "Welcome! What would you like to eat?" {
		t.Fatalf("unexpected reply text: %q", reply.Reply)
	}
	if reply.ChineseTranslation == "" {
		t.Fatalf("missing translation")
	}
	if reply.GrammarFeedback == nil || !strings.Contains(*reply.GrammarFeedback, "I would like") {
		t.Fatalf("grammar feedback not parsed: %v", reply.GrammarFeedback)
	}
	if reply.EncouragementScore != 7 {
		t.Fatalf("score = %d, want 7", reply.EncouragementScore)
	}
	if len(reply.SuggestedReplies) != 3 {
		t.Fatalf("suggested replies = %v", reply.SuggestedReplies)
	}
	if reply.IsConversationFinished {
		t.Fatalf("conversation should not be finished")
	}
}

func TestParseTurnReplyStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + fullPayload + "\n```"

	reply, err := ParseTurnReply(fenced, validate.NewValidator())
	if err != nil {
		t.Fatalf("ParseTurnReply with fences: %v", err)
	}
	if reply.Reply == "" {
		t.Fatalf("fenced payload lost its reply")
	}
}

func TestParseTurnReplyOptionalFieldsStayAbsent(t *testing.T) {
	payload := `{
		"reply": "Great job!",
		"chinese_translation": "做得好！",
		"suggested_replies": ["Thanks!", "What next?", "One more time!"],
		"is_conversation_finished": false
	}`

	reply, err := ParseTurnReply(payload, validate.NewValidator())
	if err != nil {
		t.Fatalf("ParseTurnReply: %v", err)
	}
	if reply.GrammarFeedback != nil || reply.BetterWayToSay != nil {
		t.Fatalf("optional fields should stay nil when absent")
	}
	if reply.EncouragementScore != 0 {
		t.Fatalf("absent score should parse as zero, got %d", reply.EncouragementScore)
	}
}

func TestParseTurnReplyRejectsMissingFields(t *testing.T) {
	payload := `{"chinese_translation": "你好", "suggested_replies": ["Hi"]}`

	if _, err := ParseTurnReply(payload, validate.NewValidator()); err == nil {
		t.Fatalf("payload without a reply should be rejected")
	}
}

func TestParseTurnReplyRejectsInvalidJSON(t *testing.T) {
	if _, err := ParseTurnReply("Sure! Here is the JSON you asked for:", validate.NewValidator()); err == nil {
		t.Fatalf("prose payload should be rejected")
	}
}
