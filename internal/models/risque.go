package models

import (
	"time"

	"gorm.io/gorm"
)

type RisqueStatut string

const (
	RisqueOpen   RisqueStatut = "open"
	RisqueClosed RisqueStatut = "closed"
)

type Risque struct {
	gorm.Model
	ProjetID uint `gorm:"not null;index"`
	Projet   Projet

	Actif         string `gorm:"size:255;not null"` // защищаемый актив
	Menace        string `gorm:"size:255"`
	Vulnerabilite string `gorm:"type:text"`

	Impact      Impact      `gorm:"type:varchar(16);not null"`
	Probabilite Probabilite `gorm:"type:varchar(16);not null"`

	// вычисляется движком оценки при создании
	Niveau   Niveau   `gorm:"type:varchar(16);not null"`
	Decision Decision `gorm:"type:varchar(16);not null"`

	Owner   string `gorm:"size:255"`
	DueDate *time.Time
	Statut  RisqueStatut `gorm:"type:varchar(16);not null"`
}
