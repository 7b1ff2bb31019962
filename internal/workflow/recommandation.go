package workflow

import (
	"fmt"
	"strings"

	"audit-remediation/internal/database"
	"audit-remediation/internal/lifecycle"
	"audit-remediation/internal/models"

	"gorm.io/gorm"
)

// SetRecommandationStatus — решение по рекомендации: pending -> validated
// или pending -> to_revise, оба статуса терминальные. Родительский констат
// и планы мероприятий не затрагиваются.
func SetRecommandationStatus(actorID uint, recID uint, statut models.RecStatut) (*models.Recommandation, error) {
	switch statut {
	case models.RecValidated, models.RecToRevise:
	default:
		return nil, fmt.Errorf("%w: recommandation statut %q", lifecycle.ErrInvalidTransition, statut)
	}

	var rec models.Recommandation

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, recID).Error; err != nil {
			return err
		}
		if rec.Statut != models.RecPending {
			return fmt.Errorf("%w: recommandation already decided (%q)", lifecycle.ErrInvalidTransition, rec.Statut)
		}

		res := tx.Model(&models.Recommandation{}).
			Where("id = ? AND statut = ?", recID, models.RecPending).
			Update("statut", statut)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: recommandation statut changed concurrently", lifecycle.ErrInvalidTransition)
		}
		rec.Statut = statut

		database.CreateJournalEntryTx(tx, actorID, "recommandation", recID, "statut_change",
			"Статус изменён на: "+string(statut))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type PlanActionInput struct {
	Titre             string
	Description       string
	Priorite          models.Priorite
	RecommandationIDs []uint
}

// CreatePlanAction заводит план мероприятий. Требуется минимум одна
// рекомендация; связи пишутся в общую таблицу вместе с самим планом,
// в одной транзакции.
func CreatePlanAction(actorID uint, input PlanActionInput) (*models.PlanAction, error) {
	input.Titre = strings.TrimSpace(input.Titre)
	if input.Titre == "" {
		return nil, fmt.Errorf("%w: titre", lifecycle.ErrMissingRequiredField)
	}
	if len(input.RecommandationIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one recommandation", lifecycle.ErrMissingRequiredField)
	}

	var plan models.PlanAction

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var recs []models.Recommandation
		if err := tx.Find(&recs, input.RecommandationIDs).Error; err != nil {
			return err
		}
		if len(recs) != len(input.RecommandationIDs) {
			return gorm.ErrRecordNotFound
		}

		plan = models.PlanAction{
			Titre:           input.Titre,
			Description:     input.Description,
			Priorite:        input.Priorite,
			Statut:          models.PlanPending, // статус живёт своей жизнью, создание его не трогает
			Recommandations: recs,
		}
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}

		database.CreateJournalEntryTx(tx, actorID, "plan_action", plan.ID, "create",
			"Создан план мероприятий: "+plan.Titre)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
