package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pathwaygaza/pathway-back/internal/models"
)

var DB *gorm.DB

// Connect opens the postgres database with a short retry loop (a Docker
// database can take a couple of seconds to come up) and runs migrations.
func Connect(dsn string) error {
	var err error
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			return Migrate(DB)
		}
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("failed to connect database after retries: %w", err)
}

func Migrate(g *gorm.DB) error {
	return g.AutoMigrate(
		&models.User{},
		&models.Grade{},
		&models.Course{},
		&models.Unit{},
		&models.Lesson{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.QuizAttempt{},
		&models.UserAnswer{},
		&models.LessonProgress{},
	)
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
