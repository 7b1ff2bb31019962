package models

import "gorm.io/gorm"

type ConstatType string

const (
	ConstatNCMajeure    ConstatType = "nc_major"
	ConstatNCMineure    ConstatType = "nc_minor"
	ConstatSatisfaction ConstatType = "satisfaction_point"
	ConstatProgres      ConstatType = "progress_point"
)

// Constat — результат аудита (несоответствие или позитивное наблюдение).
// Всегда принадлежит ровно одному аудиту.
type Constat struct {
	gorm.Model
	AuditID uint `gorm:"not null;index"`
	Audit   Audit

	// опциональная привязка к проекту устранения
	ProjetID *uint

	Description string      `gorm:"type:text;not null"`
	Type        ConstatType `gorm:"type:varchar(50);not null"`
	Criticite   Criticite   `gorm:"type:varchar(16)"` // может быть не задана
	Impact      string      `gorm:"type:text"`
	Probabilite Probabilite `gorm:"type:varchar(16)"`

	Recommandations []Recommandation
}
