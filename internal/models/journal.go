package models

import "time"

// JournalEntry — журнал действий пользователей над записями системы.
type JournalEntry struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID uint
	User   User

	Entity   string `gorm:"size:50;not null"` // "projet", "audit", "constat" и т.п.
	EntityID uint
	Action   string `gorm:"size:50;not null"` // "create", "statut_change" и т.п.
	Details  string `gorm:"type:text"`
}
