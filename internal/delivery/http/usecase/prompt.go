package usecase

import (
	"fmt"

	httpEntity "github.com/juniortalk/juniortalk-be/internal/delivery/http/entity"
)

const (
	easyInstruction   = "Level: Beginner (A1). Use very short, simple sentences (3-8 words). Use basic vocabulary. Be very slow and encouraging."
	mediumInstruction = "Level: Intermediate (A2). Use complete sentences. Introduce 1-2 new words naturally. Correct grammar gently."
	hardInstruction   = "Level: Advanced (B1). Use natural, flowing conversation with some idioms. Speak at a normal pace. Correct mistakes clearly."
)

// DifficultyInstruction returns the constraint text for one tier. Tiers never
// mix: the compiled instruction embeds exactly one of these.
func DifficultyInstruction(difficulty httpEntity.DifficultyLevel) string {
	switch difficulty {
	case httpEntity.DifficultyMedium:
		return mediumInstruction
	case httpEntity.DifficultyHard:
		return hardInstruction
	default:
		return easyInstruction
	}
}

func scenarioRole(scenario httpEntity.Scenario) string {
	if scenario.ID == "food" {
		return "Waiter"
	}
	return "Friend"
}

const instructionTemplate = `You are a friendly, energetic English teacher role-playing a scenario with a young student (Age 7-12).
Scenario: %s.
Description: %s.
Your Role: %s.

DIFFICULTY SETTING: %s
%s

Rules:
1. Adhere strictly to the sentence length and vocabulary constraints of the DIFFICULTY SETTING.
2. Be very encouraging.
3. Always correct significant grammar mistakes gently in the 'grammar_feedback' field.
4. If the user uses Chinese, encourage them to use English but answer them in English.
5. Maintain the persona of the scenario.
6. Provide the 'chinese_translation' for your reply.
7. ALWAYS provide 3 'suggested_replies' that the student could say next.
8. Set 'is_conversation_finished' to true when the conversation reaches a natural ending, or after 8 of your replies at the latest.

Respond with ONLY a valid JSON object, no markdown and no code blocks, with exactly these fields:
{"reply": "your reply in English", "chinese_translation": "Chinese translation of your reply", "grammar_feedback": "gentle correction of the student's grammar, or null if perfect", "better_way_to_say": "a more natural way to say what the student meant, or null if not needed", "encouragement_score": 1-10 integer based on effort and accuracy, "suggested_replies": ["three", "short", "replies"], "is_conversation_finished": true or false}`

// CompileInstruction builds the one system instruction a session is created
// with. Pure function of scenario and difficulty.
func CompileInstruction(scenario httpEntity.Scenario, difficulty httpEntity.DifficultyLevel) string {
	return fmt.Sprintf(
		instructionTemplate,
		scenario.Title,
		scenario.Description,
		scenarioRole(scenario),
		difficulty,
		DifficultyInstruction(difficulty),
	)
}

// CompileOpeningRequest builds the synthetic first message that asks the model
// to open the conversation from the scenario's seed line.
func CompileOpeningRequest(scenario httpEntity.Scenario, difficulty httpEntity.DifficultyLevel) string {
	return fmt.Sprintf(
		"Start the conversation as defined in the system prompt. The context is: %q. Adapt this opening line to match the %s difficulty level.",
		scenario.InitialPrompt,
		difficulty,
	)
}
