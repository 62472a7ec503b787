package database

import (
	"log"
	"worktime/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(dsn string) error {
	return open(postgres.Open(dsn))
}

// InitDialector opens the store on an arbitrary gorm dialector. Tests
// use it with an in-memory sqlite database.
func InitDialector(d gorm.Dialector) error {
	return open(d)
}

func open(dialector gorm.Dialector) error {
	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	// Auto migrate the schema
	err = DB.AutoMigrate(&models.User{}, &models.Report{}, &models.Attachment{}, &models.DayDuration{})
	if err != nil {
		return err
	}

	// Seed default viewer account if not exists
	if err := seedDefaultAdmin(); err != nil {
		return err
	}

	return nil
}

func seedDefaultAdmin() error {
	var count int64
	DB.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     "admin",
		FullName:     "Administrator",
		PasswordHash: string(hashedPassword),
	}

	result := DB.Create(&admin)
	if result.Error != nil {
		return result.Error
	}

	log.Println("Default viewer account created (username: admin, password: admin)")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
