package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjetStatut string

const (
	ProjetCreated          ProjetStatut = "created"
	ProjetSwotAnalysis     ProjetStatut = "swot_analysis"
	ProjetSecurityAnalysis ProjetStatut = "security_analysis"
	ProjetConception       ProjetStatut = "conception"
	ProjetApproved         ProjetStatut = "approved"
)

// Projet — проект устранения. Поле Statut меняется только через
// переходы жизненного цикла (internal/lifecycle).
type Projet struct {
	gorm.Model
	Nom       string  `gorm:"size:255;not null"`
	Perimetre string  `gorm:"type:text"`
	Budget    float64 `gorm:"default:0"`

	Priorite Priorite `gorm:"type:varchar(16)"`

	StartDate *time.Time
	EndDate   *time.Time

	Statut ProjetStatut `gorm:"type:varchar(50);not null"`

	CreatorID uint
	Creator   User

	ValidatorID       *uint
	ValidatedAt       *time.Time
	ValidationComment string `gorm:"type:text"`

	Swot       *Swot
	Conception *Conception
	Risques    []Risque
}
