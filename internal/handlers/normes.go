package handlers

import (
	"net/http"
	"strings"

	"audit-remediation/internal/database"
	"audit-remediation/internal/models"

	"github.com/gin-gonic/gin"
)

//
// КАТАЛОГ НОРМ И СТАНДАРТОВ
//

func ListNormes(c *gin.Context) {
	var normes []models.Norme
	database.DB.Order("code asc").Find(&normes)

	actor := currentActor(c)

	render(c, http.StatusOK, "normes_list.html", gin.H{
		"normes":  normes,
		"IsAdmin": actor.Role == models.RoleAdmin,
	})
}

func ShowNewNorme(c *gin.Context) {
	render(c, http.StatusOK, "normes_new.html", gin.H{
		"error": "",
	})
}

func CreateNorme(c *gin.Context) {
	code := strings.TrimSpace(c.PostForm("code"))
	name := strings.TrimSpace(c.PostForm("name"))
	description := strings.TrimSpace(c.PostForm("description"))

	if code == "" || name == "" {
		render(c, http.StatusBadRequest, "normes_new.html", gin.H{
			"error": "Код и название обязательны",
		})
		return
	}

	norme := models.Norme{
		Code:        code,
		Name:        name,
		Description: description,
	}

	if err := database.DB.Create(&norme).Error; err != nil {
		render(c, http.StatusBadRequest, "normes_new.html", gin.H{
			"error": "Ошибка сохранения (возможно, код уже занят)",
		})
		return
	}

	actor := currentActor(c)
	if actor.ID != 0 {
		database.CreateJournalEntry(actor.ID, "norme", norme.ID, "create", "Добавлена норма: "+norme.Code)
	}

	c.Redirect(http.StatusFound, "/normes")
}
