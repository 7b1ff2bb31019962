package models

import (
	"time"

	"gorm.io/gorm"
)

type AuditType string
type AuditStatut string

const (
	AuditOrganisationnel AuditType = "organizational"
	AuditTechnique       AuditType = "technical"

	AuditPlanned    AuditStatut = "planned"
	AuditInProgress AuditStatut = "in_progress"
	AuditFinished   AuditStatut = "finished"
)

// Synthese — кэш сводки по аудиту, пересчитывается целиком по запросу.
type Synthese struct {
	TotalConstats           int            `json:"total_constats"`
	ConstatsMajeurs         int            `json:"constats_majeurs"`
	ConstatsMineurs         int            `json:"constats_mineurs"`
	Recommandations         int            `json:"recommandations"`
	RepartitionParType      map[string]int `json:"repartition_par_type"`
	RepartitionParCriticite map[string]int `json:"repartition_par_criticite"`
	ComputedAt              time.Time      `json:"computed_at"`
}

type Audit struct {
	gorm.Model
	Name       string    `gorm:"size:255;not null"`
	Type       AuditType `gorm:"type:varchar(50);not null"`
	Scope      string    `gorm:"type:text"`
	Objectives string    `gorm:"type:text"`

	StartDate *time.Time
	EndDate   *time.Time

	Statut AuditStatut `gorm:"type:varchar(50);not null"`

	CreatorID uint
	Creator   User

	Normes   []Norme `gorm:"many2many:audit_normes"`
	Constats []Constat

	Synthese *Synthese `gorm:"serializer:json"`
}
