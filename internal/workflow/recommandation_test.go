package workflow

import (
	"errors"
	"testing"

	"audit-remediation/internal/database"
	"audit-remediation/internal/lifecycle"
	"audit-remediation/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.MigrateAll(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	database.DB = db
}

func mustCreateConstatWithRecs(t *testing.T, recs int) (models.Constat, []models.Recommandation) {
	t.Helper()

	audit := models.Audit{Name: "Audit SI", Type: models.AuditTechnique, Statut: models.AuditInProgress}
	if err := database.DB.Create(&audit).Error; err != nil {
		t.Fatalf("create audit: %v", err)
	}

	constat := models.Constat{
		AuditID:     audit.ID,
		Description: "mots de passe faibles",
		Type:        models.ConstatNCMajeure,
	}
	if err := database.DB.Create(&constat).Error; err != nil {
		t.Fatalf("create constat: %v", err)
	}

	var created []models.Recommandation
	for i := 0; i < recs; i++ {
		rec := models.Recommandation{
			ConstatID: constat.ID,
			Contenu:   "imposer une politique de mots de passe",
			Statut:    models.RecPending,
		}
		if err := database.DB.Create(&rec).Error; err != nil {
			t.Fatalf("create recommandation: %v", err)
		}
		created = append(created, rec)
	}
	return constat, created
}

func TestSetRecommandationStatus(t *testing.T) {
	setupTestDB(t)
	constat, recs := mustCreateConstatWithRecs(t, 2)

	rec, err := SetRecommandationStatus(1, recs[0].ID, models.RecValidated)
	if err != nil {
		t.Fatalf("SetRecommandationStatus: %v", err)
	}
	if rec.Statut != models.RecValidated {
		t.Errorf("statut = %s, want validated", rec.Statut)
	}

	// родительский констат и его список рекомендаций не трогаются
	var count int64
	database.DB.Model(&models.Recommandation{}).Where("constat_id = ?", constat.ID).Count(&count)
	if count != 2 {
		t.Errorf("recommandation count = %d, want 2", count)
	}
	var sibling models.Recommandation
	database.DB.First(&sibling, recs[1].ID)
	if sibling.Statut != models.RecPending {
		t.Errorf("sibling statut = %s, want pending", sibling.Statut)
	}

	// решение терминально — второй раз не переиграть
	if _, err := SetRecommandationStatus(1, recs[0].ID, models.RecToRevise); !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Errorf("redecide: err = %v, want ErrInvalidTransition", err)
	}
}

func TestSetRecommandationStatusToRevise(t *testing.T) {
	setupTestDB(t)
	_, recs := mustCreateConstatWithRecs(t, 1)

	rec, err := SetRecommandationStatus(1, recs[0].ID, models.RecToRevise)
	if err != nil {
		t.Fatalf("SetRecommandationStatus: %v", err)
	}
	if rec.Statut != models.RecToRevise {
		t.Errorf("statut = %s, want to_revise", rec.Statut)
	}

	// возврат в pending не предусмотрен
	if _, err := SetRecommandationStatus(1, recs[0].ID, models.RecPending); !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Errorf("back to pending: err = %v, want ErrInvalidTransition", err)
	}
}

func TestSetRecommandationStatusInvalidTarget(t *testing.T) {
	setupTestDB(t)
	_, recs := mustCreateConstatWithRecs(t, 1)

	if _, err := SetRecommandationStatus(1, recs[0].ID, models.RecStatut("validée")); !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Errorf("free-form statut: err = %v, want ErrInvalidTransition", err)
	}
}

func TestSetRecommandationStatusNotFound(t *testing.T) {
	setupTestDB(t)

	if _, err := SetRecommandationStatus(1, 777, models.RecValidated); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestCreatePlanAction(t *testing.T) {
	setupTestDB(t)
	_, recs := mustCreateConstatWithRecs(t, 2)

	plan, err := CreatePlanAction(1, PlanActionInput{
		Titre:             "Campagne de durcissement",
		Priorite:          models.PrioriteHigh,
		RecommandationIDs: []uint{recs[0].ID, recs[1].ID},
	})
	if err != nil {
		t.Fatalf("CreatePlanAction: %v", err)
	}
	if plan.Statut != models.PlanPending {
		t.Errorf("plan statut = %s, want pending", plan.Statut)
	}

	// связь видна с обеих сторон
	var loaded models.PlanAction
	if err := database.DB.Preload("Recommandations").First(&loaded, plan.ID).Error; err != nil {
		t.Fatalf("reload plan: %v", err)
	}
	if len(loaded.Recommandations) != 2 {
		t.Errorf("plan has %d recommandations, want 2", len(loaded.Recommandations))
	}

	var rec models.Recommandation
	if err := database.DB.Preload("PlanActions").First(&rec, recs[0].ID).Error; err != nil {
		t.Fatalf("reload recommandation: %v", err)
	}
	if len(rec.PlanActions) != 1 || rec.PlanActions[0].ID != plan.ID {
		t.Errorf("recommandation side of the link broken: %+v", rec.PlanActions)
	}
}

func TestCreatePlanActionValidation(t *testing.T) {
	setupTestDB(t)
	_, recs := mustCreateConstatWithRecs(t, 1)

	if _, err := CreatePlanAction(1, PlanActionInput{Titre: "x"}); !errors.Is(err, lifecycle.ErrMissingRequiredField) {
		t.Errorf("no recommandations: err = %v, want ErrMissingRequiredField", err)
	}
	if _, err := CreatePlanAction(1, PlanActionInput{RecommandationIDs: []uint{recs[0].ID}}); !errors.Is(err, lifecycle.ErrMissingRequiredField) {
		t.Errorf("no titre: err = %v, want ErrMissingRequiredField", err)
	}
	if _, err := CreatePlanAction(1, PlanActionInput{Titre: "x", RecommandationIDs: []uint{999}}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("missing recommandation: err = %v, want gorm.ErrRecordNotFound", err)
	}

	var count int64
	database.DB.Model(&models.PlanAction{}).Count(&count)
	if count != 0 {
		t.Errorf("plans written despite failed validation: %d", count)
	}
}
