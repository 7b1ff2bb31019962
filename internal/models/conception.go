package models

import "gorm.io/gorm"

type ConceptionStatut string

const (
	ConceptionPending   ConceptionStatut = "pending"
	ConceptionValidated ConceptionStatut = "validated"
	ConceptionToRevise  ConceptionStatut = "to_revise"
)

// Conception — документ архитектуры/дизайна, не более одного на проект.
// Само содержимое файла хранится вне системы, тут только метаданные.
type Conception struct {
	gorm.Model
	ProjetID uint `gorm:"uniqueIndex;not null"`

	FileName   string `gorm:"size:255;not null"`
	FileType   string `gorm:"size:100"`
	ContentRef string `gorm:"size:512"`

	Commentaire string           `gorm:"type:text"`
	Statut      ConceptionStatut `gorm:"type:varchar(16);not null"`
}
