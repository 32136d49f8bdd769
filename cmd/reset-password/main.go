package main

import (
	"flag"

	"go-pos-ws/internal/model"
	"go-pos-ws/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Resets a user's password from the command line. Also rotates the token
// version so any live session for that user is invalidated.
func main() {
	email := flag.String("email", "admin@example.com", "email of the user to reset")
	password := flag.String("password", "admin123", "new password")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, relying on environment")
	}

	db := database.ConnectDB()

	var user model.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		logrus.WithError(err).Fatalf("user %s not found", *email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Fatal("failed to hash password")
	}

	updates := map[string]interface{}{
		"password":      string(hashedPassword),
		"token_version": uuid.New().String(),
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		logrus.WithError(err).Fatal("failed to update password")
	}

	logrus.Infof("password for %s has been reset, existing sessions invalidated", *email)
}
