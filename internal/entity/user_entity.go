package entity

import "time"

type User struct {
	Id           int64
	Email        string
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
