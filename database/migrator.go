package database

import (
	"github.com/juniortalk/juniortalk-be/internal/entity"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.Scenario{},
	)
	return err
}
