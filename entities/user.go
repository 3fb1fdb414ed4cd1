package entities

import "time"

// User is an account that can own structures and mark structures as favorites.
// The password is never stored or serialized in plaintext, only as a bcrypt hash.
type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Username     string      `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string      `gorm:"not null" json:"-"`
	CreatedOn    time.Time   `gorm:"autoCreateTime" json:"created_on"`
	Structures   []Structure `gorm:"foreignKey:UserID" json:"-"`
	Favorites    []Structure `gorm:"many2many:user_favorites" json:"-"`
}
