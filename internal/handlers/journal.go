package handlers

import (
	"net/http"

	"audit-remediation/internal/database"
	"audit-remediation/internal/models"

	"github.com/gin-gonic/gin"
)

func ListJournal(c *gin.Context) {
	actor := currentActor(c)

	if actor.Role != models.RoleAdmin && actor.Role != models.RoleViewer {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	var entries []models.JournalEntry
	database.DB.
		Preload("User").
		Order("created_at desc").
		Limit(200).
		Find(&entries)

	render(c, http.StatusOK, "journal_list.html", gin.H{
		"entries": entries,
		"role":    string(actor.Role),
		"IsAdmin": actor.Role == models.RoleAdmin,
	})
}
