package models

import "gorm.io/gorm"

type PlanStatut string

const (
	PlanPending    PlanStatut = "pending"
	PlanInProgress PlanStatut = "in_progress"
	PlanDone       PlanStatut = "done"
)

// PlanAction — план мероприятий, закрывающий одну или несколько рекомендаций.
// Связь многие-ко-многим через plan_action_recommandations.
type PlanAction struct {
	gorm.Model
	Titre       string     `gorm:"size:255;not null"`
	Description string     `gorm:"type:text"`
	Priorite    Priorite   `gorm:"type:varchar(16)"`
	Statut      PlanStatut `gorm:"type:varchar(16);not null"`

	Recommandations []Recommandation `gorm:"many2many:plan_action_recommandations"`
}
