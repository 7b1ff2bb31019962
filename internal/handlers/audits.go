package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"audit-remediation/internal/database"
	"audit-remediation/internal/models"
	"audit-remediation/internal/synthese"

	"github.com/gin-gonic/gin"
)

//
// СПИСОК АУДИТОВ
//

// Список аудитов + фильтры
func ListAudits(c *gin.Context) {
	actor := currentActor(c)

	typeStr := c.Query("type")
	statutStr := c.Query("statut")

	dbq := database.DB.Preload("Creator").Order("created_at desc")

	if typeStr != "" {
		dbq = dbq.Where("type = ?", typeStr)
	}
	if statutStr != "" {
		dbq = dbq.Where("statut = ?", statutStr)
	}

	var audits []models.Audit
	if err := dbq.Find(&audits).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка загрузки аудитов")
		return
	}

	render(c, http.StatusOK, "audits_list.html", gin.H{
		"audits":       audits,
		"FilterType":   typeStr,
		"FilterStatut": statutStr,

		"IsAdmin":   actor.Role == models.RoleAdmin,
		"IsAuditor": actor.Role == models.RoleAuditor,
	})
}

//
// СОЗДАНИЕ АУДИТА
//

func ShowNewAudit(c *gin.Context) {
	var normes []models.Norme
	database.DB.Order("code asc").Find(&normes)

	render(c, http.StatusOK, "audits_new.html", gin.H{
		"normes": normes,
		"error":  "",
	})
}

func CreateAudit(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	typeStr := c.PostForm("audit_type")
	scope := strings.TrimSpace(c.PostForm("scope"))
	objectives := strings.TrimSpace(c.PostForm("objectives"))
	startStr := c.PostForm("start_date")
	endStr := c.PostForm("end_date")
	normeIDs := c.PostFormArray("norme_ids")

	if len(name) < 3 {
		renderAuditError(c, "Название аудита должно быть не короче 3 символов")
		return
	}

	atype := models.AuditType(typeStr)
	switch atype {
	case models.AuditOrganisationnel, models.AuditTechnique:
	default:
		renderAuditError(c, "Неверный тип аудита")
		return
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

	var normes []models.Norme
	if len(normeIDs) > 0 {
		database.DB.Find(&normes, normeIDs)
	}

	actor := currentActor(c)

	audit := models.Audit{
		Name:       name,
		Type:       atype,
		Scope:      scope,
		Objectives: objectives,
		StartDate:  startDate,
		EndDate:    endDate,
		Statut:     models.AuditPlanned,
		CreatorID:  actor.ID,
		Normes:     normes,
	}

	if err := database.DB.Create(&audit).Error; err != nil {
		renderAuditError(c, "Ошибка сохранения аудита")
		return
	}

	if actor.ID != 0 {
		database.CreateJournalEntry(actor.ID, "audit", audit.ID, "create", "Создан аудит: "+audit.Name)
	}

	c.Redirect(http.StatusFound, "/audits")
}

func renderAuditError(c *gin.Context, msg string) {
	var normes []models.Norme
	database.DB.Order("code asc").Find(&normes)

	render(c, http.StatusBadRequest, "audits_new.html", gin.H{
		"error":  msg,
		"normes": normes,
	})
}

//
// КАРТОЧКА АУДИТА
//

func ShowAuditDetail(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		c.String(http.StatusBadRequest, "Некорректный ID аудита")
		return
	}

	var audit models.Audit
	if err := database.DB.
		Preload("Creator").
		Preload("Normes").
		Preload("Constats.Recommandations").
		First(&audit, id).Error; err != nil {
		c.String(http.StatusNotFound, "Аудит не найден")
		return
	}

	actor := currentActor(c)

	render(c, http.StatusOK, "audit_detail.html", gin.H{
		"audit":    audit,
		"synthese": audit.Synthese,

		"IsAdmin":   actor.Role == models.RoleAdmin,
		"IsAuditor": actor.Role == models.RoleAuditor,
	})
}

//
// СМЕНА СТАТУСА АУДИТА
//

func ChangeAuditStatut(c *gin.Context) {
	idStr := c.Param("id")
	statutStr := c.PostForm("statut")

	aid, err := strconv.Atoi(idStr)
	if err != nil || aid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID аудита")
		return
	}

	var audit models.Audit
	if err := database.DB.First(&audit, aid).Error; err != nil {
		c.String(http.StatusNotFound, "Аудит не найден")
		return
	}

	newStatut := models.AuditStatut(statutStr)
	switch newStatut {
	case models.AuditPlanned, models.AuditInProgress, models.AuditFinished:
	default:
		c.String(http.StatusBadRequest, "Некорректный статус")
		return
	}

	audit.Statut = newStatut
	if err := database.DB.Save(&audit).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка обновления статуса")
		return
	}

	actor := currentActor(c)
	if actor.ID != 0 {
		database.CreateJournalEntry(actor.ID, "audit", audit.ID, "statut_change",
			"Статус изменён на: "+string(newStatut))
	}

	c.Redirect(http.StatusFound, "/audits/"+idStr)
}

//
// ПЕРЕСЧЁТ СВОДКИ
//

func SynthesizeAudit(c *gin.Context) {
	idStr := c.Param("id")
	aid, err := strconv.Atoi(idStr)
	if err != nil || aid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID аудита")
		return
	}

	result, err := synthese.Synthesize(uint(aid))
	if err != nil {
		c.String(http.StatusInternalServerError, "Ошибка пересчёта сводки")
		return
	}
	if result == nil {
		c.String(http.StatusNotFound, "Аудит не найден")
		return
	}

	actor := currentActor(c)
	if actor.ID != 0 {
		database.CreateJournalEntry(actor.ID, "audit", uint(aid), "synthese", "Пересчитана сводка аудита")
	}

	c.Redirect(http.StatusFound, "/audits/"+idStr)
}

//
// УДАЛЕНИЕ АУДИТА
//

func DeleteAudit(c *gin.Context) {
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

	var audit models.Audit
	if err := database.DB.First(&audit, id).Error; err != nil {
		c.String(http.StatusNotFound, "Аудит не найден")
		return
	}

	// пока есть констаты — удалять нельзя
	var count int64
	database.DB.Model(&models.Constat{}).Where("audit_id = ?", id).Count(&count)
	if count > 0 {
		c.String(http.StatusConflict, "У аудита есть констаты, удаление запрещено")
		return
	}

	if err := database.DB.Delete(&audit).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка удаления")
		return
	}

	database.CreateJournalEntry(actor.ID, "audit", audit.ID, "delete", "Удалён аудит: "+audit.Name)

	c.Redirect(http.StatusFound, "/audits")
}
