package model

import "time"

type Note struct {
	Id        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Text      []byte    `gorm:"type:bytea"`
	UserId    int64     `gorm:"not null;index"`
	Attached  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "note"
}
