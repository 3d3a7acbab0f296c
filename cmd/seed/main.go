package main

import (
	"log"
	"os"

	"my-notes-be/internal/model"
	"my-notes-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	demoEmail    = "demo@mynotes.local"
	demoLogin    = "demo"
	demoPassword = "demo12345"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var existing model.User
	if err := db.Where("email = ?", demoEmail).First(&existing).Error; err == nil {
		color.Yellow("Demo user already exists (id=%d), nothing to do", existing.Id)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Error: Failed to hash password:", err)
	}

	user := model.User{
		Email:        demoEmail,
		Login:        demoLogin,
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Error: Failed to create demo user:", err)
	}
	color.Green("Created demo user %s (id=%d)", demoEmail, user.Id)

	note := model.Note{
		Name:   "Welcome",
		Text:   []byte("<p>This note was created by the seeder.</p>"),
		UserId: user.Id,
	}
	if err := db.Create(&note).Error; err != nil {
		log.Fatal("Error: Failed to create demo note:", err)
	}
	color.Green("Created demo note %q (id=%d)", note.Name, note.Id)

	color.Cyan("Login with %s / %s", demoEmail, demoPassword)
}
