package models

import "time"

// AuthToken is an opaque credential bound to exactly one user. The key is
// what clients present in the Authorization header ("Token <key>").
type AuthToken struct {
	Key       string    `gorm:"primaryKey;size:40" json:"key"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
