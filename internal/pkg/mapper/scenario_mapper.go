package mapper

import (
	httpEntity "github.com/juniortalk/juniortalk-be/internal/delivery/http/entity"
	dbEntity "github.com/juniortalk/juniortalk-be/internal/entity"
)

// ConvertToScenario - Convert DB entity to domain entity
func ConvertToScenario(record *dbEntity.Scenario) httpEntity.Scenario {
	return httpEntity.Scenario{
		ID:            record.ScenarioID,
		Title:         record.Title,
		Emoji:         record.Emoji,
		Description:   record.Description,
		Difficulty:    httpEntity.DifficultyLevel(record.Difficulty),
		InitialPrompt: record.InitialPrompt,
		Color:         record.Color,
	}
}
