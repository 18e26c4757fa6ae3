package repository

import (
	"github.com/juniortalk/juniortalk-be/internal/entity"
	"gorm.io/gorm"
)

type (
	ScenarioRepository interface {
		FindAll(db *gorm.DB) ([]entity.Scenario, error)
		FindByScenarioID(db *gorm.DB, scenarioID string) (*entity.Scenario, error)
		Count(db *gorm.DB) (int64, error)
	}

	scenarioRepository struct {
		db *gorm.DB
	}
)

func NewScenarioRepository(db *gorm.DB) ScenarioRepository {
	return &scenarioRepository{db: db}
}

func (r *scenarioRepository) FindAll(db *gorm.DB) ([]entity.Scenario, error) {
	if db == nil {
		db = r.db
	}
	var scenarios []entity.Scenario
	err := db.Order("id ASC").Find(&scenarios).Error
	return scenarios, err
}

func (r *scenarioRepository) FindByScenarioID(db *gorm.DB, scenarioID string) (*entity.Scenario, error) {
	if db == nil {
		db = r.db
	}
	var scenario entity.Scenario
	err := db.Where("scenario_id = ?", scenarioID).First(&scenario).Error
	if err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (r *scenarioRepository) Count(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	err := db.Model(&entity.Scenario{}).Count(&count).Error
	return count, err
}
