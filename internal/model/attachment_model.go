package model

import "time"

type Attachment struct {
	Id        int64     `gorm:"primaryKey;autoIncrement"`
	File      []byte    `gorm:"type:bytea;not null"`
	Extension string    `gorm:"type:varchar(10);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Attachment) TableName() string {
	return "attachment"
}
