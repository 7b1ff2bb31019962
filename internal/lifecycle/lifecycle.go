package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"audit-remediation/internal/database"
	"audit-remediation/internal/models"
	"audit-remediation/internal/risk"

	"gorm.io/gorm"
)

// Actor — действующий пользователь, приходит из сессии.
type Actor struct {
	ID   uint
	Role models.UserRole
}

type ProjetInput struct {
	Nom       string
	Perimetre string
	Budget    float64
	Priorite  models.Priorite
	StartDate *time.Time
	EndDate   *time.Time
}

type SwotInput struct {
	Forces          []string
	Faiblesses      []string
	Opportunites    []string
	Menaces         []string
	Analyse         string
	Recommandations string
}

type RisqueInput struct {
	Actif         string
	Menace        string
	Vulnerabilite string
	Impact        models.Impact
	Probabilite   models.Probabilite
	Decision      models.Decision // пусто = взять предложение движка
	Owner         string
	DueDate       *time.Time
}

type ConceptionInput struct {
	FileName   string
	FileType   string
	ContentRef string
}

// CreateProjet заводит проект в начальном статусе created.
func CreateProjet(actor Actor, input ProjetInput) (*models.Projet, error) {
	input.Nom = strings.TrimSpace(input.Nom)
	if input.Nom == "" {
		return nil, fmt.Errorf("%w: nom", ErrMissingRequiredField)
	}

	projet := models.Projet{
		Nom:       input.Nom,
		Perimetre: input.Perimetre,
		Budget:    input.Budget,
		Priorite:  input.Priorite,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Statut:    models.ProjetCreated,
		CreatorID: actor.ID,
	}

	if err := database.DB.Create(&projet).Error; err != nil {
		return nil, err
	}

	database.CreateJournalEntry(actor.ID, "projet", projet.ID, "create", "Создан проект: "+projet.Nom)
	return &projet, nil
}

// RecordSwot фиксирует SWOT-анализ и переводит проект в swot_analysis.
// Повторный вызов при существующем SWOT завершается ErrDuplicateSwot
// без каких-либо записей.
func RecordSwot(actor Actor, projetID uint, input SwotInput) (*models.Swot, error) {
	var swot models.Swot

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var projet models.Projet
		if err := tx.First(&projet, projetID).Error; err != nil {
			return err
		}

		switch projet.Statut {
		case models.ProjetCreated, models.ProjetSwotAnalysis:
		default:
			return fmt.Errorf("%w: record swot from %q", ErrInvalidTransition, projet.Statut)
		}

		var count int64
		if err := tx.Model(&models.Swot{}).Where("projet_id = ?", projetID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateSwot
		}

		swot = models.Swot{
			ProjetID:        projetID,
			Forces:          input.Forces,
			Faiblesses:      input.Faiblesses,
			Opportunites:    input.Opportunites,
			Menaces:         input.Menaces,
			Analyse:         input.Analyse,
			Recommandations: input.Recommandations,
		}
		if err := tx.Create(&swot).Error; err != nil {
			return err
		}

		// условный UPDATE защищает от гонки параллельных переходов
		res := tx.Model(&models.Projet{}).
			Where("id = ? AND statut IN ?", projetID,
				[]models.ProjetStatut{models.ProjetCreated, models.ProjetSwotAnalysis}).
			Update("statut", models.ProjetSwotAnalysis)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: projet statut changed concurrently", ErrInvalidTransition)
		}

		database.CreateJournalEntryTx(tx, actor.ID, "projet", projetID, "swot", "Зафиксирован SWOT-анализ")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &swot, nil
}

// RecordSecurityAnalysis создаёт партию рисков (каждый оценивается движком)
// и переводит проект в security_analysis. Повторные партии до утверждения
// допускаются — ограничения "один на проект" здесь нет.
func RecordSecurityAnalysis(actor Actor, projetID uint, inputs []RisqueInput) ([]models.Risque, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one risque", ErrMissingRequiredField)
	}

	var created []models.Risque

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var projet models.Projet
		if err := tx.First(&projet, projetID).Error; err != nil {
			return err
		}

		switch projet.Statut {
		case models.ProjetSwotAnalysis, models.ProjetSecurityAnalysis:
		default:
			return fmt.Errorf("%w: record security analysis from %q", ErrInvalidTransition, projet.Statut)
		}

		for _, in := range inputs {
			in.Actif = strings.TrimSpace(in.Actif)
			if in.Actif == "" {
				return fmt.Errorf("%w: actif", ErrMissingRequiredField)
			}

			// нейтральные значения по умолчанию перед оценкой
			if in.Impact == "" {
				in.Impact = models.ImpactMedium
			}
			if in.Probabilite == "" {
				in.Probabilite = models.ProbLow
			}

			niveau, suggestion, err := risk.Score(in.Impact, in.Probabilite)
			if err != nil {
				return err
			}

			decision := in.Decision
			if decision == "" {
				decision = suggestion
			}
			switch decision {
			case models.DecisionEvaluer, models.DecisionTraiter,
				models.DecisionAccepter, models.DecisionTransferer:
			default:
				return fmt.Errorf("%w: decision %q", risk.ErrInvalidEnum, decision)
			}

			risque := models.Risque{
				ProjetID:      projetID,
				Actif:         in.Actif,
				Menace:        in.Menace,
				Vulnerabilite: in.Vulnerabilite,
				Impact:        in.Impact,
				Probabilite:   in.Probabilite,
				Niveau:        niveau,
				Decision:      decision,
				Owner:         in.Owner,
				DueDate:       in.DueDate,
				Statut:        models.RisqueOpen,
			}
			if err := tx.Create(&risque).Error; err != nil {
				return err
			}
			created = append(created, risque)
		}

		res := tx.Model(&models.Projet{}).
			Where("id = ? AND statut IN ?", projetID,
				[]models.ProjetStatut{models.ProjetSwotAnalysis, models.ProjetSecurityAnalysis}).
			Update("statut", models.ProjetSecurityAnalysis)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: projet statut changed concurrently", ErrInvalidTransition)
		}

		database.CreateJournalEntryTx(tx, actor.ID, "projet", projetID, "risques",
			fmt.Sprintf("Добавлено рисков: %d", len(created)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SubmitConception регистрирует документ концепции (статус pending)
// и переводит проект в conception.
func SubmitConception(actor Actor, projetID uint, input ConceptionInput) (*models.Conception, error) {
	input.FileName = strings.TrimSpace(input.FileName)
	if input.FileName == "" {
		return nil, fmt.Errorf("%w: file name", ErrMissingRequiredField)
	}

	var conception models.Conception

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var projet models.Projet
		if err := tx.First(&projet, projetID).Error; err != nil {
			return err
		}

		switch projet.Statut {
		case models.ProjetSecurityAnalysis, models.ProjetConception:
		default:
			return fmt.Errorf("%w: submit conception from %q", ErrInvalidTransition, projet.Statut)
		}

		var count int64
		if err := tx.Model(&models.Conception{}).Where("projet_id = ?", projetID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateConception
		}

		conception = models.Conception{
			ProjetID:   projetID,
			FileName:   input.FileName,
			FileType:   input.FileType,
			ContentRef: input.ContentRef,
			Statut:     models.ConceptionPending,
		}
		if err := tx.Create(&conception).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Projet{}).
			Where("id = ? AND statut IN ?", projetID,
				[]models.ProjetStatut{models.ProjetSecurityAnalysis, models.ProjetConception}).
			Update("statut", models.ProjetConception)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: projet statut changed concurrently", ErrInvalidTransition)
		}

		database.CreateJournalEntryTx(tx, actor.ID, "projet", projetID, "conception",
			"Подана концепция: "+conception.FileName)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &conception, nil
}

// ReviseConception обновляет отклонённый документ и возвращает проект
// на рассмотрение (conception, статус документа снова pending).
func ReviseConception(actor Actor, projetID uint, input ConceptionInput) (*models.Conception, error) {
	input.FileName = strings.TrimSpace(input.FileName)
	if input.FileName == "" {
		return nil, fmt.Errorf("%w: file name", ErrMissingRequiredField)
	}

	var conception models.Conception

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var projet models.Projet
		if err := tx.First(&projet, projetID).Error; err != nil {
			return err
		}
		if projet.Statut != models.ProjetSecurityAnalysis {
			return fmt.Errorf("%w: revise conception from %q", ErrInvalidTransition, projet.Statut)
		}

		if err := tx.Where("projet_id = ?", projetID).First(&conception).Error; err != nil {
			return err
		}
		if conception.Statut != models.ConceptionToRevise {
			return fmt.Errorf("%w: conception is %q, not to_revise", ErrInvalidTransition, conception.Statut)
		}

		updates := map[string]interface{}{
			"file_name":   input.FileName,
			"file_type":   input.FileType,
			"content_ref": input.ContentRef,
			"statut":      models.ConceptionPending,
		}
		if err := tx.Model(&conception).Updates(updates).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Projet{}).
			Where("id = ? AND statut = ?", projetID, models.ProjetSecurityAnalysis).
			Update("statut", models.ProjetConception)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: projet statut changed concurrently", ErrInvalidTransition)
		}

		database.CreateJournalEntryTx(tx, actor.ID, "projet", projetID, "conception",
			"Концепция переподана: "+input.FileName)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &conception, nil
}

// ValidateConception — решение ревьюера по концепции. Единственный переход
// с ветвлением и единственный, которому позволено двигать статус назад.
// Обе записи (проект и концепция) меняются в одной транзакции.
func ValidateConception(actor Actor, projetID uint, approved bool, comment string) error {
	if actor.Role != models.RoleReviewer {
		return ErrForbidden
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		var projet models.Projet
		if err := tx.First(&projet, projetID).Error; err != nil {
			return err
		}
		if projet.Statut != models.ProjetConception {
			return fmt.Errorf("%w: validate conception from %q", ErrInvalidTransition, projet.Statut)
		}

		var conception models.Conception
		if err := tx.Where("projet_id = ?", projetID).First(&conception).Error; err != nil {
			return err
		}
		if conception.Statut != models.ConceptionPending {
			return fmt.Errorf("%w: conception already decided (%q)", ErrInvalidTransition, conception.Statut)
		}

		if approved {
			if err := tx.Model(&conception).Updates(map[string]interface{}{
				"statut":      models.ConceptionValidated,
				"commentaire": comment,
			}).Error; err != nil {
				return err
			}

			now := time.Now()
			res := tx.Model(&models.Projet{}).
				Where("id = ? AND statut = ?", projetID, models.ProjetConception).
				Updates(map[string]interface{}{
					"statut":             models.ProjetApproved,
					"validator_id":       actor.ID,
					"validated_at":       now,
					"validation_comment": comment,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				return fmt.Errorf("%w: projet statut changed concurrently", ErrInvalidTransition)
			}

			database.CreateJournalEntryTx(tx, actor.ID, "projet", projetID, "approve",
				"Концепция утверждена")
			return nil
		}

		if err := tx.Model(&conception).Updates(map[string]interface{}{
			"statut":      models.ConceptionToRevise,
			"commentaire": comment,
		}).Error; err != nil {
			return err
		}

		// возврат на этап анализа рисков, не на SWOT
		res := tx.Model(&models.Projet{}).
			Where("id = ? AND statut = ?", projetID, models.ProjetConception).
			Updates(map[string]interface{}{
				"statut":             models.ProjetSecurityAnalysis,
				"validation_comment": comment,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: projet statut changed concurrently", ErrInvalidTransition)
		}

		database.CreateJournalEntryTx(tx, actor.ID, "projet", projetID, "reject",
			"Концепция отправлена на доработку: "+comment)
		return nil
	})
}
