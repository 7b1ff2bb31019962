package database

import (
	"audit-remediation/internal/models"

	"gorm.io/gorm"
)

// helper для записи в журнал действий
func CreateJournalEntry(userID uint, entity string, entityID uint, action, details string) {
	if DB == nil {
		return
	}
	record := models.JournalEntry{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	_ = DB.Create(&record).Error
}

// та же запись, но внутри открытой транзакции
func CreateJournalEntryTx(tx *gorm.DB, userID uint, entity string, entityID uint, action, details string) {
	record := models.JournalEntry{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	_ = tx.Create(&record).Error
}
