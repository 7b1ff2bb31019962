package handlers

import (
	"audit-remediation/internal/lifecycle"
	"audit-remediation/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// currentActor собирает действующего пользователя из сессии.
func currentActor(c *gin.Context) lifecycle.Actor {
	sess := sessions.Default(c)
	uid, _ := sess.Get("user_id").(uint)
	roleStr, _ := sess.Get("role").(string)
	return lifecycle.Actor{ID: uid, Role: models.UserRole(roleStr)}
}
