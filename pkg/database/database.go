package database

import (
	"fmt"
	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/model"
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
		&model.Course{},
		&model.Lesson{},
		&model.Enrollment{},
		&model.LessonCompletion{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizAttempt{},
		&model.DictionaryEntry{},
		&model.SavedWord{},
		&model.TutorSession{},
		&model.TutorMessage{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认词典条目（首次启动时填充，便于前端联调）
	var count int64
	db.Model(&model.DictionaryEntry{}).Count(&count)
	if count == 0 {
		starter := []model.DictionaryEntry{
			{Word: "Hallo", Translation: "hello", PartOfSpeech: "interjection", Level: "A1", Example: "Hallo, wie geht es dir?"},
			{Word: "Haus", Article: "das", Plural: "Häuser", Translation: "house", PartOfSpeech: "noun", Level: "A1", Example: "Das Haus ist groß."},
			{Word: "Frau", Article: "die", Plural: "Frauen", Translation: "woman", PartOfSpeech: "noun", Level: "A1", Example: "Die Frau liest ein Buch."},
			{Word: "Tisch", Article: "der", Plural: "Tische", Translation: "table", PartOfSpeech: "noun", Level: "A1", Example: "Der Tisch steht in der Küche."},
			{Word: "lernen", Translation: "to learn", PartOfSpeech: "verb", Level: "A1", Example: "Ich lerne Deutsch."},
			{Word: "sprechen", Translation: "to speak", PartOfSpeech: "verb", Level: "A1", Example: "Sprichst du Deutsch?"},
		}
		for _, e := range starter {
			db.Create(&e)
		}
	}

	return db, nil
}
