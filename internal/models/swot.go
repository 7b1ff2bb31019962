package models

import "gorm.io/gorm"

// Swot — не более одного на проект (уникальный индекс по projet_id).
type Swot struct {
	gorm.Model
	ProjetID uint `gorm:"uniqueIndex;not null"`

	Forces       []string `gorm:"serializer:json"`
	Faiblesses   []string `gorm:"serializer:json"`
	Opportunites []string `gorm:"serializer:json"`
	Menaces      []string `gorm:"serializer:json"`

	Analyse         string `gorm:"type:text"`
	Recommandations string `gorm:"type:text"`
}
