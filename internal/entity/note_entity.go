package entity

import "time"

type Note struct {
	Id        int64
	Name      string
	Text      []byte
	UserId    int64
	Attached  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}
