package specification

import "gorm.io/gorm"

type ByTargetUser struct {
	TargetUser string
}

func (s ByTargetUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("target_user = ?", s.TargetUser)
}
