package specification

import "gorm.io/gorm"

type OwnedByUser struct {
	UserID int64
}

func (s OwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
