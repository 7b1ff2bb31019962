package lifecycle

import (
	"errors"
	"testing"

	"audit-remediation/internal/database"
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

	// одна in-memory база — один коннект
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

var (
	auditor  = Actor{ID: 1, Role: models.RoleAuditor}
	reviewer = Actor{ID: 2, Role: models.RoleReviewer}
)

func mustCreateProjet(t *testing.T) *models.Projet {
	t.Helper()
	projet, err := CreateProjet(auditor, ProjetInput{Nom: "Durcissement AD"})
	if err != nil {
		t.Fatalf("CreateProjet: %v", err)
	}
	return projet
}

func reloadProjet(t *testing.T, id uint) models.Projet {
	t.Helper()
	var projet models.Projet
	if err := database.DB.First(&projet, id).Error; err != nil {
		t.Fatalf("reload projet: %v", err)
	}
	return projet
}

func TestCreateProjetInitialStatut(t *testing.T) {
	setupTestDB(t)

	projet := mustCreateProjet(t)
	if projet.Statut != models.ProjetCreated {
		t.Errorf("statut = %s, want %s", projet.Statut, models.ProjetCreated)
	}

	if _, err := CreateProjet(auditor, ProjetInput{Nom: "  "}); !errors.Is(err, ErrMissingRequiredField) {
		t.Errorf("empty nom: err = %v, want ErrMissingRequiredField", err)
	}
}

func TestRecordSwot(t *testing.T) {
	setupTestDB(t)
	projet := mustCreateProjet(t)

	swot, err := RecordSwot(auditor, projet.ID, SwotInput{
		Forces:  []string{"équipe motivée"},
		Menaces: []string{"dette technique"},
	})
	if err != nil {
		t.Fatalf("RecordSwot: %v", err)
	}
	if swot.ProjetID != projet.ID {
		t.Errorf("swot.ProjetID = %d, want %d", swot.ProjetID, projet.ID)
	}

	if got := reloadProjet(t, projet.ID).Statut; got != models.ProjetSwotAnalysis {
		t.Errorf("statut = %s, want %s", got, models.ProjetSwotAnalysis)
	}

	// повторная фиксация не должна ни создать второй SWOT, ни сменить статус
	if _, err := RecordSwot(auditor, projet.ID, SwotInput{}); !errors.Is(err, ErrDuplicateSwot) {
		t.Fatalf("second RecordSwot: err = %v, want ErrDuplicateSwot", err)
	}

	var count int64
	database.DB.Model(&models.Swot{}).Where("projet_id = ?", projet.ID).Count(&count)
	if count != 1 {
		t.Errorf("swot count = %d, want 1", count)
	}
	if got := reloadProjet(t, projet.ID).Statut; got != models.ProjetSwotAnalysis {
		t.Errorf("statut after duplicate = %s, want %s", got, models.ProjetSwotAnalysis)
	}

	var first models.Swot
	database.DB.Where("projet_id = ?", projet.ID).First(&first)
	if len(first.Forces) != 1 || first.Forces[0] != "équipe motivée" {
		t.Errorf("first swot overwritten: %+v", first.Forces)
	}
}

func TestRecordSwotNotFound(t *testing.T) {
	setupTestDB(t)

	if _, err := RecordSwot(auditor, 9999, SwotInput{}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestRecordSecurityAnalysis(t *testing.T) {
	setupTestDB(t)
	projet := mustCreateProjet(t)

	if _, err := RecordSwot(auditor, projet.ID, SwotInput{}); err != nil {
		t.Fatalf("RecordSwot: %v", err)
	}

	risques, err := RecordSecurityAnalysis(auditor, projet.ID, []RisqueInput{
		{Actif: "serveur AD", Impact: models.ImpactCritical, Probabilite: models.ProbHigh},
		{Actif: "poste nomade"}, // нейтральные значения по умолчанию
	})
	if err != nil {
		t.Fatalf("RecordSecurityAnalysis: %v", err)
	}
	if len(risques) != 2 {
		t.Fatalf("created %d risques, want 2", len(risques))
	}

	if risques[0].Niveau != models.NiveauCritical || risques[0].Decision != models.DecisionTraiter {
		t.Errorf("risque[0] = (%s, %s), want (critical, to_treat)", risques[0].Niveau, risques[0].Decision)
	}
	// medium x low = 2 -> low
	if risques[1].Impact != models.ImpactMedium || risques[1].Probabilite != models.ProbLow {
		t.Errorf("defaults not applied: (%s, %s)", risques[1].Impact, risques[1].Probabilite)
	}
	if risques[1].Niveau != models.NiveauLow || risques[1].Decision != models.DecisionAccepter {
		t.Errorf("risque[1] = (%s, %s), want (low, to_accept)", risques[1].Niveau, risques[1].Decision)
	}

	if got := reloadProjet(t, projet.ID).Statut; got != models.ProjetSecurityAnalysis {
		t.Errorf("statut = %s, want %s", got, models.ProjetSecurityAnalysis)
	}

	// дополнительные партии рисков допускаются
	more, err := RecordSecurityAnalysis(auditor, projet.ID, []RisqueInput{
		{Actif: "pare-feu", Impact: models.ImpactHigh, Probabilite: models.ProbLow, Decision: models.DecisionTransferer},
	})
	if err != nil {
		t.Fatalf("second RecordSecurityAnalysis: %v", err)
	}
	if more[0].Decision != models.DecisionTransferer {
		t.Errorf("explicit decision not kept: %s", more[0].Decision)
	}

	var count int64
	database.DB.Model(&models.Risque{}).Where("projet_id = ?", projet.ID).Count(&count)
	if count != 3 {
		t.Errorf("risque count = %d, want 3", count)
	}
}

func TestRecordSecurityAnalysisValidation(t *testing.T) {
	setupTestDB(t)
	projet := mustCreateProjet(t)

	if _, err := RecordSecurityAnalysis(auditor, projet.ID, nil); !errors.Is(err, ErrMissingRequiredField) {
		t.Errorf("empty batch: err = %v, want ErrMissingRequiredField", err)
	}

	// проект ещё в created — анализ рисков недоступен
	if _, err := RecordSecurityAnalysis(auditor, projet.ID, []RisqueInput{{Actif: "x"}}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("from created: err = %v, want ErrInvalidTransition", err)
	}

	var count int64
	database.DB.Model(&models.Risque{}).Count(&count)
	if count != 0 {
		t.Errorf("risques written despite failed transition: %d", count)
	}
}

func advanceToConception(t *testing.T) *models.Projet {
	t.Helper()
	projet := mustCreateProjet(t)
	if _, err := RecordSwot(auditor, projet.ID, SwotInput{}); err != nil {
		t.Fatalf("RecordSwot: %v", err)
	}
	if _, err := RecordSecurityAnalysis(auditor, projet.ID, []RisqueInput{{Actif: "serveur AD"}}); err != nil {
		t.Fatalf("RecordSecurityAnalysis: %v", err)
	}
	if _, err := SubmitConception(auditor, projet.ID, ConceptionInput{FileName: "archi-cible.pdf"}); err != nil {
		t.Fatalf("SubmitConception: %v", err)
	}
	return projet
}

func TestSubmitConception(t *testing.T) {
	setupTestDB(t)
	projet := advanceToConception(t)

	if got := reloadProjet(t, projet.ID).Statut; got != models.ProjetConception {
		t.Errorf("statut = %s, want %s", got, models.ProjetConception)
	}

	var conception models.Conception
	if err := database.DB.Where("projet_id = ?", projet.ID).First(&conception).Error; err != nil {
		t.Fatalf("conception not created: %v", err)
	}
	if conception.Statut != models.ConceptionPending {
		t.Errorf("conception statut = %s, want pending", conception.Statut)
	}

	if _, err := SubmitConception(auditor, projet.ID, ConceptionInput{FileName: "v2.pdf"}); !errors.Is(err, ErrDuplicateConception) {
		t.Errorf("second submit: err = %v, want ErrDuplicateConception", err)
	}
}

func TestSubmitConceptionTooEarly(t *testing.T) {
	setupTestDB(t)
	projet := mustCreateProjet(t)

	if _, err := SubmitConception(auditor, projet.ID, ConceptionInput{FileName: "early.pdf"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}

	var count int64
	database.DB.Model(&models.Conception{}).Count(&count)
	if count != 0 {
		t.Errorf("conception written despite failed transition: %d", count)
	}
}

func TestValidateConceptionApproved(t *testing.T) {
	setupTestDB(t)
	projet := advanceToConception(t)

	if err := ValidateConception(reviewer, projet.ID, true, "conforme"); err != nil {
		t.Fatalf("ValidateConception: %v", err)
	}

	got := reloadProjet(t, projet.ID)
	if got.Statut != models.ProjetApproved {
		t.Errorf("statut = %s, want %s", got.Statut, models.ProjetApproved)
	}
	if got.ValidatorID == nil || *got.ValidatorID != reviewer.ID {
		t.Errorf("validator id not recorded: %v", got.ValidatorID)
	}
	if got.ValidatedAt == nil {
		t.Error("validation timestamp not recorded")
	}

	var conception models.Conception
	database.DB.Where("projet_id = ?", projet.ID).First(&conception)
	if conception.Statut != models.ConceptionValidated {
		t.Errorf("conception statut = %s, want validated", conception.Statut)
	}
	if conception.Commentaire != "conforme" {
		t.Errorf("commentaire = %q, want %q", conception.Commentaire, "conforme")
	}
}

func TestValidateConceptionRejected(t *testing.T) {
	setupTestDB(t)
	projet := advanceToConception(t)

	if err := ValidateConception(reviewer, projet.ID, false, "needs rework"); err != nil {
		t.Fatalf("ValidateConception: %v", err)
	}

	// возврат на анализ рисков, не на SWOT
	got := reloadProjet(t, projet.ID)
	if got.Statut != models.ProjetSecurityAnalysis {
		t.Errorf("statut = %s, want %s", got.Statut, models.ProjetSecurityAnalysis)
	}
	if got.ValidatorID != nil {
		t.Errorf("validator id recorded on rejection: %v", *got.ValidatorID)
	}

	var conception models.Conception
	database.DB.Where("projet_id = ?", projet.ID).First(&conception)
	if conception.Statut != models.ConceptionToRevise {
		t.Errorf("conception statut = %s, want to_revise", conception.Statut)
	}
	if conception.Commentaire != "needs rework" {
		t.Errorf("commentaire = %q, want %q", conception.Commentaire, "needs rework")
	}

	// после доработки документ переподаётся и снова ждёт решения
	if _, err := ReviseConception(auditor, projet.ID, ConceptionInput{FileName: "archi-cible-v2.pdf"}); err != nil {
		t.Fatalf("ReviseConception: %v", err)
	}
	if got := reloadProjet(t, projet.ID).Statut; got != models.ProjetConception {
		t.Errorf("statut after revise = %s, want %s", got, models.ProjetConception)
	}
	database.DB.Where("projet_id = ?", projet.ID).First(&conception)
	if conception.Statut != models.ConceptionPending || conception.FileName != "archi-cible-v2.pdf" {
		t.Errorf("conception after revise = (%s, %s)", conception.Statut, conception.FileName)
	}

	if err := ValidateConception(reviewer, projet.ID, true, "ok"); err != nil {
		t.Fatalf("ValidateConception after revise: %v", err)
	}
	if got := reloadProjet(t, projet.ID).Statut; got != models.ProjetApproved {
		t.Errorf("statut = %s, want %s", got, models.ProjetApproved)
	}
}

func TestValidateConceptionForbidden(t *testing.T) {
	setupTestDB(t)
	projet := advanceToConception(t)

	if err := ValidateConception(auditor, projet.ID, true, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("auditor validate: err = %v, want ErrForbidden", err)
	}
	if err := ValidateConception(Actor{ID: 5, Role: models.RoleAdmin}, projet.ID, true, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("admin validate: err = %v, want ErrForbidden", err)
	}

	// ничего не должно измениться
	if got := reloadProjet(t, projet.ID).Statut; got != models.ProjetConception {
		t.Errorf("statut = %s, want %s", got, models.ProjetConception)
	}
	var conception models.Conception
	database.DB.Where("projet_id = ?", projet.ID).First(&conception)
	if conception.Statut != models.ConceptionPending {
		t.Errorf("conception statut = %s, want pending", conception.Statut)
	}
}

func TestValidateConceptionWrongState(t *testing.T) {
	setupTestDB(t)
	projet := mustCreateProjet(t)

	if err := ValidateConception(reviewer, projet.ID, true, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}
