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
// РЕКОМЕНДАЦИИ
//

func CreateRecommandation(c *gin.Context) {
	idStr := c.Param("id")
	cid, err := strconv.Atoi(idStr)
	if err != nil || cid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID констата")
		return
	}

	var constat models.Constat
	if err := database.DB.First(&constat, cid).Error; err != nil {
		c.String(http.StatusNotFound, "Констат не найден")
		return
	}

	contenu := strings.TrimSpace(c.PostForm("contenu"))
	if contenu == "" {
		c.String(http.StatusBadRequest, "Текст рекомендации обязателен")
		return
	}

	priorite := models.Priorite(c.PostForm("priorite"))
	if priorite == "" {
		priorite = models.PrioriteMedium
	}
	complexite := models.Complexite(c.PostForm("complexite"))
	if complexite == "" {
		complexite = models.ComplexiteMedium
	}

	rec := models.Recommandation{
		ConstatID:  constat.ID,
		Contenu:    contenu,
		Priorite:   priorite,
		Complexite: complexite,
		Statut:     models.RecPending, // новая рекомендация всегда pending
	}

	if err := database.DB.Create(&rec).Error; err != nil {
		c.String(http.StatusInternalServerError, "Ошибка сохранения рекомендации")
		return
	}

	actor := currentActor(c)
	if actor.ID != 0 {
		database.CreateJournalEntry(actor.ID, "recommandation", rec.ID, "create",
			"Добавлена рекомендация к констату")
	}

	c.Redirect(http.StatusFound, "/constats/"+idStr)
}

// решение по рекомендации: validated / to_revise
func DecideRecommandation(c *gin.Context) {
	idStr := c.Param("id")
	rid, err := strconv.Atoi(idStr)
	if err != nil || rid <= 0 {
		c.String(http.StatusBadRequest, "Некорректный ID рекомендации")
		return
	}

	statut := models.RecStatut(c.PostForm("statut"))

	actor := currentActor(c)
	rec, err := workflow.SetRecommandationStatus(actor.ID, uint(rid), statut)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.String(http.StatusNotFound, "Рекомендация не найдена")
		case errors.Is(err, lifecycle.ErrInvalidTransition):
			c.String(http.StatusBadRequest, "Недопустимый статус рекомендации")
		default:
			c.String(http.StatusInternalServerError, "Ошибка обновления статуса")
		}
		return
	}

	c.Redirect(http.StatusFound, "/constats/"+strconv.Itoa(int(rec.ConstatID)))
}
