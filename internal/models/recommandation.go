package models

import "gorm.io/gorm"

type RecStatut string

const (
	RecPending   RecStatut = "pending"
	RecValidated RecStatut = "validated"
	RecToRevise  RecStatut = "to_revise"
)

type Recommandation struct {
	gorm.Model
	ConstatID uint `gorm:"not null;index"`
	Constat   Constat

	Contenu    string     `gorm:"type:text;not null"`
	Priorite   Priorite   `gorm:"type:varchar(16)"`
	Complexite Complexite `gorm:"type:varchar(16)"`
	Statut     RecStatut  `gorm:"type:varchar(16);not null"`

	PlanActions []PlanAction `gorm:"many2many:plan_action_recommandations"`
}
