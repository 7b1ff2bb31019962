package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"audit-remediation/internal/database"
	"audit-remediation/internal/models"

	"github.com/gin-gonic/gin"
)

//
// КОНСТАТЫ (РЕЗУЛЬТАТЫ АУДИТА)
//

func ShowNewConstat(c *gin.Context) {
	idStr := c.Param("id")

	var audit models.Audit
	if err := database.DB.First(&audit, idStr).Error; err != nil {
		c.String(http.StatusNotFound, "Аудит не найден")
		return
	}

	var projets []models.Projet
	database.DB.Order("nom asc").Find(&projets)

	render(c, http.StatusOK, "constats_new.html", gin.H{
		"audit":   audit,
		"projets": projets,
		"error":   "",
	})
}

func CreateConstat(c *gin.Context) {
	idStr := c.Param("id")
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

	description := strings.TrimSpace(c.PostForm("description"))
	typeStr := c.PostForm("constat_type")
	criticiteStr := c.PostForm("criticite")
	impact := strings.TrimSpace(c.PostForm("impact"))
	probStr := c.PostForm("probabilite")
	projetIDStr := c.PostForm("projet_id")

	if description == "" {
		renderConstatError(c, audit, "Описание констата обязательно")
		return
	}

	ctype := models.ConstatType(typeStr)
	switch ctype {
	case models.ConstatNCMajeure, models.ConstatNCMineure,
		models.ConstatSatisfaction, models.ConstatProgres:
	default:
		renderConstatError(c, audit, "Неверный тип констата")
		return
	}

	// criticité опциональна, но если задана — только из шкалы
	criticite := models.Criticite(criticiteStr)
	if criticite != "" {
		switch criticite {
		case models.CriticiteLow, models.CriticiteMedium, models.CriticiteHigh:
		default:
			renderConstatError(c, audit, "Неверная критичность")
			return
		}
	}

	prob := models.Probabilite(probStr)
	if prob != "" {
		switch prob {
		case models.ProbLow, models.ProbMedium, models.ProbHigh:
		default:
			renderConstatError(c, audit, "Неверная вероятность")
			return
		}
	}

	var projetID *uint
	if projetIDStr != "" {
		if pid, err := strconv.Atoi(projetIDStr); err == nil && pid > 0 {
			var projet models.Projet
			if err := database.DB.First(&projet, pid).Error; err != nil {
				renderConstatError(c, audit, "Проект не найден")
				return
			}
			projetID = &projet.ID
		}
	}

	constat := models.Constat{
		AuditID:     audit.ID,
		ProjetID:    projetID,
		Description: description,
		Type:        ctype,
		Criticite:   criticite,
		Impact:      impact,
		Probabilite: prob,
	}

	if err := database.DB.Create(&constat).Error; err != nil {
		renderConstatError(c, audit, "Ошибка сохранения констата")
		return
	}

	actor := currentActor(c)
	if actor.ID != 0 {
		database.CreateJournalEntry(actor.ID, "constat", constat.ID, "create",
			"Добавлен констат к аудиту: "+audit.Name)
	}

	c.Redirect(http.StatusFound, "/audits/"+idStr)
}

func renderConstatError(c *gin.Context, audit models.Audit, msg string) {
	var projets []models.Projet
	database.DB.Order("nom asc").Find(&projets)

	render(c, http.StatusBadRequest, "constats_new.html", gin.H{
		"error":   msg,
		"audit":   audit,
		"projets": projets,
	})
}

func ShowConstatDetail(c *gin.Context) {
	idStr := c.Param("id")

	var constat models.Constat
	if err := database.DB.
		Preload("Audit").
		Preload("Recommandations.PlanActions").
		First(&constat, idStr).Error; err != nil {
		c.String(http.StatusNotFound, "Констат не найден")
		return
	}

	actor := currentActor(c)

	render(c, http.StatusOK, "constat_detail.html", gin.H{
		"constat": constat,

		"IsAdmin":    actor.Role == models.RoleAdmin,
		"IsAuditor":  actor.Role == models.RoleAuditor,
		"IsReviewer": actor.Role == models.RoleReviewer,
	})
}
