package entity

import (
	"time"

	"gorm.io/gorm"
)

// Scenario - catalog of practice conversations, seeded at startup
type Scenario struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ScenarioID    string         `gorm:"uniqueIndex;size:50;not null" json:"scenario_id"` // e.g. "food"
	Title         string         `gorm:"size:100;not null" json:"title"`
	Emoji         string         `gorm:"size:10;not null" json:"emoji"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	Difficulty    string         `gorm:"size:20;not null;index" json:"difficulty"` // Easy, Medium, Hard
	InitialPrompt string         `gorm:"type:text;not null" json:"initial_prompt"` // opening line template
	Color         string         `gorm:"size:50" json:"color"`                     // theme color token
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Scenario) TableName() string {
	return "scenarios"
}
