package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"audit-remediation/internal/database"
	"audit-remediation/internal/lifecycle"
	"audit-remediation/internal/models"
	"audit-remediation/internal/workflow"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

//
// ПЛАНЫ МЕРОПРИЯТИЙ
//

func ListPlans(c *gin.Context) {
	var plans []models.PlanAction
	database.DB.Preload("Recommandations").Order("created_at desc").Find(&plans)

	actor := currentActor(c)

	render(c, http.StatusOK, "plans_list.html", gin.H{
		"plans":   plans,
		"IsAdmin": actor.Role == models.RoleAdmin,
	})
}

func ShowNewPlan(c *gin.Context) {
	var recs []models.Recommandation
	database.DB.Preload("Constat").Order("created_at desc").Find(&recs)

	render(c, http.StatusOK, "plans_new.html", gin.H{
		"recommandations": recs,
		"error":           "",
	})
}

func CreatePlan(c *gin.Context) {
	titre := strings.TrimSpace(c.PostForm("titre"))
	description := strings.TrimSpace(c.PostForm("description"))
	priorite := models.Priorite(c.PostForm("priorite"))
	recIDStrs := c.PostFormArray("recommandation_ids")

	var recIDs []uint
	for _, s := range recIDStrs {
		if id, err := strconv.Atoi(s); err == nil && id > 0 {
			recIDs = append(recIDs, uint(id))
		}
	}

	actor := currentActor(c)

	_, err := workflow.CreatePlanAction(actor.ID, workflow.PlanActionInput{
		Titre:             titre,
		Description:       description,
		Priorite:          priorite,
		RecommandationIDs: recIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrMissingRequiredField):
			renderPlanError(c, "Укажите название и хотя бы одну рекомендацию")
		case errors.Is(err, gorm.ErrRecordNotFound):
			renderPlanError(c, "Рекомендация не найдена")
		default:
			renderPlanError(c, "Ошибка сохранения плана")
		}
		return
	}

	c.Redirect(http.StatusFound, "/plans")
}

func renderPlanError(c *gin.Context, msg string) {
	var recs []models.Recommandation
	database.DB.Preload("Constat").Order("created_at desc").Find(&recs)

	render(c, http.StatusBadRequest, "plans_new.html", gin.H{
		"error":           msg,
		"recommandations": recs,
	})
}

// смена статуса плана — статус живёт независимо от рекомендаций
func ChangePlanStatut(c *gin.Context) {
	idStr := c.Param("id")
	pid, err := strconv.Atoi(idStr)
	if err != nil || pid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID плана")
		return
	}

	var plan models.PlanAction
	if err := database.DB.First(&plan, pid).Error; err != nil {
		c.String(http.StatusNotFound, "План не найден")
		return
	}

	newStatut := models.PlanStatut(c.PostForm("statut"))
	switch newStatut {
	case models.PlanPending, models.PlanInProgress, models.PlanDone:
	default:
		c.String(http.StatusBadRequest, "Некорректный статус")
		return
	}

	plan.Statut = newStatut
	if err := database.DB.Save(&plan).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка обновления статуса")
		return
	}

	actor := currentActor(c)
	if actor.ID != 0 {
		database.CreateJournalEntry(actor.ID, "plan_action", plan.ID, "statut_change",
			"Статус изменён на: "+string(newStatut))
	}

	c.Redirect(http.StatusFound, "/plans")
}
