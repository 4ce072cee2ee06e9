package database

import (
	"engolo_backend/internal/config"
	"engolo_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Exercise{},
		&model.QuizSet{},
		&model.QuizQuestion{},
		&model.ExerciseProgress{},
		&model.ExerciseStatistic{},
		&model.QuizStatistic{},
		&model.ChatMessage{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Seed a starter exercise catalog so a fresh install can serve module 1
	// without any teacher-authored content.
	var count int64
	db.Model(&model.Exercise{}).Count(&count)
	if count == 0 {
		for i, e := range model.StarterExercises() {
			e.Order = i + 1
			db.Create(&e)
		}
		log.Println("Seeded starter exercise catalog")
	}

	return db, nil
}
