package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"audit-remediation/internal/database"
	"audit-remediation/internal/lifecycle"
	"audit-remediation/internal/models"
	"audit-remediation/internal/risk"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

//
// СПИСОК ПРОЕКТОВ
//

func ListProjets(c *gin.Context) {
	actor := currentActor(c)

	statutStr := c.Query("statut")
	prioriteStr := c.Query("priorite")

	dbq := database.DB.Preload("Creator").Order("created_at desc")

	if statutStr != "" {
		dbq = dbq.Where("statut = ?", statutStr)
	}
	if prioriteStr != "" {
		dbq = dbq.Where("priorite = ?", prioriteStr)
	}

	var projets []models.Projet
	if err := dbq.Find(&projets).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка загрузки проектов")
		return
	}

	render(c, http.StatusOK, "projets_list.html", gin.H{
		"projets":        projets,
		"FilterStatut":   statutStr,
		"FilterPriorite": prioriteStr,

		"IsAdmin":    actor.Role == models.RoleAdmin,
		"IsAuditor":  actor.Role == models.RoleAuditor,
		"IsReviewer": actor.Role == models.RoleReviewer,
	})
}

//
// СОЗДАНИЕ ПРОЕКТА
//

func ShowNewProjet(c *gin.Context) {
	render(c, http.StatusOK, "projets_new.html", gin.H{
		"error": "",
	})
}

func CreateProjet(c *gin.Context) {
	nom := strings.TrimSpace(c.PostForm("nom"))
	perimetre := strings.TrimSpace(c.PostForm("perimetre"))
	budgetStr := c.PostForm("budget")
	prioriteStr := c.PostForm("priorite")
	startStr := c.PostForm("start_date")
	endStr := c.PostForm("end_date")

	if len(nom) < 3 {
		render(c, http.StatusBadRequest, "projets_new.html", gin.H{
			"error": "Название проекта должно быть не короче 3 символов",
		})
		return
	}

	var budget float64
	if budgetStr != "" {
		if b, err := strconv.ParseFloat(budgetStr, 64); err == nil && b >= 0 {
			budget = b
		}
	}

	priorite := models.Priorite(prioriteStr)
	if priorite == "" {
		priorite = models.PrioriteMedium
	}

	var startDate *time.Time
	if startStr != "" {
		if t, err := time.Parse("2006-01-02", startStr); err == nil {
			startDate = &t
		}
	}

	var endDate *time.Time
	if endStr != "" {
		if t, err := time.Parse("2006-01-02", endStr); err == nil {
			endDate = &t
		}
	}

	actor := currentActor(c)

	_, err := lifecycle.CreateProjet(actor, lifecycle.ProjetInput{
		Nom:       nom,
		Perimetre: perimetre,
		Budget:    budget,
		Priorite:  priorite,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		render(c, http.StatusInternalServerError, "projets_new.html", gin.H{
			"error": "Ошибка сохранения проекта",
		})
		return
	}

	c.Redirect(http.StatusFound, "/projets")
}

//
// КАРТОЧКА ПРОЕКТА
//

func ShowProjetDetail(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		c.String(http.StatusBadRequest, "Некорректный ID проекта")
		return
	}

	var projet models.Projet
	if err := database.DB.
		Preload("Creator").
		Preload("Swot").
		Preload("Conception").
		Preload("Risques").
		First(&projet, id).Error; err != nil {
		c.String(http.StatusNotFound, "Проект не найден")
		return
	}

	actor := currentActor(c)

	render(c, http.StatusOK, "projet_detail.html", gin.H{
		"projet": projet,

		"CanSwot":       projet.Statut == models.ProjetCreated || projet.Statut == models.ProjetSwotAnalysis,
		"CanRisques":    projet.Statut == models.ProjetSwotAnalysis || projet.Statut == models.ProjetSecurityAnalysis,
		"CanConception": projet.Statut == models.ProjetSecurityAnalysis || projet.Statut == models.ProjetConception,
		"CanReview":     actor.Role == models.RoleReviewer && projet.Statut == models.ProjetConception,

		"IsAdmin":    actor.Role == models.RoleAdmin,
		"IsAuditor":  actor.Role == models.RoleAuditor,
		"IsReviewer": actor.Role == models.RoleReviewer,
	})
}

//
// SWOT
//

// значения текстовых полей форм: одна строка — один пункт
func splitLines(raw string) []string {
	var items []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

func RecordSwot(c *gin.Context) {
	idStr := c.Param("id")
	pid, err := strconv.Atoi(idStr)
	if err != nil || pid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID проекта")
		return
	}

	input := lifecycle.SwotInput{
		Forces:          splitLines(c.PostForm("forces")),
		Faiblesses:      splitLines(c.PostForm("faiblesses")),
		Opportunites:    splitLines(c.PostForm("opportunites")),
		Menaces:         splitLines(c.PostForm("menaces")),
		Analyse:         strings.TrimSpace(c.PostForm("analyse")),
		Recommandations: strings.TrimSpace(c.PostForm("recommandations")),
	}

	actor := currentActor(c)

	if _, err := lifecycle.RecordSwot(actor, uint(pid), input); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.String(http.StatusNotFound, "Проект не найден")
		case errors.Is(err, lifecycle.ErrDuplicateSwot):
			c.String(http.StatusConflict, "SWOT уже зафиксирован для этого проекта")
		case errors.Is(err, lifecycle.ErrInvalidTransition):
			c.String(http.StatusBadRequest, "Недопустимый переход статуса")
		default:
			c.String(http.StatusInternalServerError, "Ошибка сохранения SWOT")
		}
		return
	}

	c.Redirect(http.StatusFound, "/projets/"+idStr)
}

//
// АНАЛИЗ РИСКОВ
//

func RecordRisques(c *gin.Context) {
	idStr := c.Param("id")
	pid, err := strconv.Atoi(idStr)
	if err != nil || pid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID проекта")
		return
	}

	// форма отправляет параллельные массивы полей
	actifs := c.PostFormArray("actif")
	menaces := c.PostFormArray("menace")
	vulns := c.PostFormArray("vulnerabilite")
	impacts := c.PostFormArray("impact")
	probs := c.PostFormArray("probabilite")
	decisions := c.PostFormArray("decision")
	owners := c.PostFormArray("owner")
	dueDates := c.PostFormArray("due_date")

	at := func(arr []string, i int) string {
		if i < len(arr) {
			return strings.TrimSpace(arr[i])
		}
		return ""
	}

	var inputs []lifecycle.RisqueInput
	for i := range actifs {
		if at(actifs, i) == "" {
			continue
		}

		var dueDate *time.Time
		if d := at(dueDates, i); d != "" {
			if t, err := time.Parse("2006-01-02", d); err == nil {
				dueDate = &t
			}
		}

		inputs = append(inputs, lifecycle.RisqueInput{
			Actif:         at(actifs, i),
			Menace:        at(menaces, i),
			Vulnerabilite: at(vulns, i),
			Impact:        models.Impact(at(impacts, i)),
			Probabilite:   models.Probabilite(at(probs, i)),
			Decision:      models.Decision(at(decisions, i)),
			Owner:         at(owners, i),
			DueDate:       dueDate,
		})
	}

	actor := currentActor(c)

	if _, err := lifecycle.RecordSecurityAnalysis(actor, uint(pid), inputs); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.String(http.StatusNotFound, "Проект не найден")
		case errors.Is(err, lifecycle.ErrMissingRequiredField):
			c.String(http.StatusBadRequest, "Укажите хотя бы один риск с активом")
		case errors.Is(err, risk.ErrInvalidEnum):
			c.String(http.StatusBadRequest, "Неверное значение шкалы риска")
		case errors.Is(err, lifecycle.ErrInvalidTransition):
			c.String(http.StatusBadRequest, "Недопустимый переход статуса")
		default:
			c.String(http.StatusInternalServerError, "Ошибка сохранения рисков")
		}
		return
	}

	c.Redirect(http.StatusFound, "/projets/"+idStr)
}

//
// КОНЦЕПЦИЯ
//

func SubmitConception(c *gin.Context) {
	idStr := c.Param("id")
	pid, err := strconv.Atoi(idStr)
	if err != nil || pid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID проекта")
		return
	}

	input := lifecycle.ConceptionInput{
		FileName:   strings.TrimSpace(c.PostForm("file_name")),
		FileType:   strings.TrimSpace(c.PostForm("file_type")),
		ContentRef: strings.TrimSpace(c.PostForm("content_ref")),
	}

	actor := currentActor(c)

	if _, err := lifecycle.SubmitConception(actor, uint(pid), input); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.String(http.StatusNotFound, "Проект не найден")
		case errors.Is(err, lifecycle.ErrDuplicateConception):
			c.String(http.StatusConflict, "Концепция уже подана для этого проекта")
		case errors.Is(err, lifecycle.ErrMissingRequiredField):
			c.String(http.StatusBadRequest, "Укажите имя файла концепции")
		case errors.Is(err, lifecycle.ErrInvalidTransition):
			c.String(http.StatusBadRequest, "Недопустимый переход статуса")
		default:
			c.String(http.StatusInternalServerError, "Ошибка сохранения концепции")
		}
		return
	}

	c.Redirect(http.StatusFound, "/projets/"+idStr)
}

func ReviseConception(c *gin.Context) {
	idStr := c.Param("id")
	pid, err := strconv.Atoi(idStr)
	if err != nil || pid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID проекта")
		return
	}

	input := lifecycle.ConceptionInput{
		FileName:   strings.TrimSpace(c.PostForm("file_name")),
		FileType:   strings.TrimSpace(c.PostForm("file_type")),
		ContentRef: strings.TrimSpace(c.PostForm("content_ref")),
	}

	actor := currentActor(c)

	if _, err := lifecycle.ReviseConception(actor, uint(pid), input); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.String(http.StatusNotFound, "Проект или концепция не найдены")
		case errors.Is(err, lifecycle.ErrMissingRequiredField):
			c.String(http.StatusBadRequest, "Укажите имя файла концепции")
		case errors.Is(err, lifecycle.ErrInvalidTransition):
			c.String(http.StatusBadRequest, "Недопустимый переход статуса")
		default:
			c.String(http.StatusInternalServerError, "Ошибка обновления концепции")
		}
		return
	}

	c.Redirect(http.StatusFound, "/projets/"+idStr)
}

// решение ревьюера по концепции
func ReviewConception(c *gin.Context) {
	idStr := c.Param("id")
	pid, err := strconv.Atoi(idStr)
	if err != nil || pid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID проекта")
		return
	}

	approved := c.PostForm("approved") == "true"
	comment := strings.TrimSpace(c.PostForm("comment"))

	actor := currentActor(c)

	if err := lifecycle.ValidateConception(actor, uint(pid), approved, comment); err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrForbidden):
			c.String(http.StatusForbidden, "Недостаточно прав")
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.String(http.StatusNotFound, "Проект или концепция не найдены")
		case errors.Is(err, lifecycle.ErrInvalidTransition):
			c.String(http.StatusBadRequest, "Недопустимый переход статуса")
		default:
			c.String(http.StatusInternalServerError, "Ошибка обработки решения")
		}
		return
	}

	c.Redirect(http.StatusFound, "/projets/"+idStr)
}

//
// УДАЛЕНИЕ ПРОЕКТА
//

func DeleteProjet(c *gin.Context) {
	actor := currentActor(c)
	if actor.Role != models.RoleAdmin {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID")
		return
	}

	var projet models.Projet
	if err := database.DB.First(&projet, id).Error; err != nil {
		c.String(http.StatusNotFound, "Проект не найден")
		return
	}

	// пока есть зависимые записи — удалять нельзя
	var count int64
	database.DB.Model(&models.Risque{}).Where("projet_id = ?", id).Count(&count)
	if count == 0 {
		database.DB.Model(&models.Swot{}).Where("projet_id = ?", id).Count(&count)
	}
	if count == 0 {
		database.DB.Model(&models.Conception{}).Where("projet_id = ?", id).Count(&count)
	}
	if count > 0 {
		c.String(http.StatusConflict, "У проекта есть зависимые записи, удаление запрещено")
		return
	}

	if err := database.DB.Delete(&projet).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка удаления")
		return
	}

	database.CreateJournalEntry(actor.ID, "projet", projet.ID, "delete", "Удалён проект: "+projet.Nom)

	c.Redirect(http.StatusFound, "/projets")
}

//
// ИСТОРИЯ ПРОЕКТА
//

func ShowProjetHistory(c *gin.Context) {
	idStr := c.Param("id")
	pid, err := strconv.Atoi(idStr)
	if err != nil || pid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID")
		return
	}

	var projet models.Projet
	if err := database.DB.First(&projet, pid).Error; err != nil {
		c.String(http.StatusNotFound, "Проект не найден")
		return
	}

	var entries []models.JournalEntry
	database.DB.Where("entity = ? AND entity_id = ?", "projet", pid).
		Preload("User").
		Order("created_at asc").
		Find(&entries)

	render(c, http.StatusOK, "projet_history.html", gin.H{
		"projet":  projet,
		"entries": entries,
	})
}
