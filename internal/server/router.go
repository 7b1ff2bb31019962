package server

import (
	"html/template"
	"net/http"

	"audit-remediation/internal/config"
	"audit-remediation/internal/handlers"
	"audit-remediation/internal/middleware"
	"audit-remediation/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// niveauClass — css-класс бейджа по уровню риска
func niveauClass(n models.Niveau) string {
	switch n {
	case models.NiveauCritical:
		return "badge-critical"
	case models.NiveauHigh:
		return "badge-high"
	case models.NiveauMedium:
		return "badge-medium"
	default:
		return "badge-low"
	}
}

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Static("/static", "./web/static")

	r.SetFuncMap(template.FuncMap{
		"eq":          func(a, b interface{}) bool { return a == b },
		"niveauClass": niveauClass,
	})
	r.LoadHTMLGlob("web/templates/*.html")

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions(cfg.SessionName, store))

	r.Use(middleware.InjectUser())

	// ГЛАВНАЯ
	r.GET("/", handlers.IndexPage)

	// AUTH
	r.GET("/register", handlers.ShowRegister)
	r.POST("/register", handlers.Register)
	r.GET("/login", handlers.ShowLogin)
	r.POST("/login", handlers.Login)
	r.GET("/logout", handlers.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	// АУДИТЫ
	auth.GET("/audits", handlers.ListAudits)
	auth.GET("/audits/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.ShowNewAudit,
	)
	auth.POST("/audits/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.CreateAudit,
	)
	auth.GET("/audits/:id", handlers.ShowAuditDetail)
	auth.POST("/audits/:id/statut",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.ChangeAuditStatut,
	)
	auth.POST("/audits/:id/synthese",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.SynthesizeAudit,
	)

	// удаление аудитов — только админ
	auth.POST("/audits/:id/delete",
		middleware.RequireRole(models.RoleAdmin),
		handlers.DeleteAudit,
	)

	// КОНСТАТЫ
	auth.GET("/audits/:id/constats/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.ShowNewConstat,
	)
	auth.POST("/audits/:id/constats/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.CreateConstat,
	)
	auth.GET("/constats/:id", handlers.ShowConstatDetail)

	// РЕКОМЕНДАЦИИ
	auth.POST("/constats/:id/recommandations",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.CreateRecommandation,
	)
	auth.POST("/recommandations/:id/decide",
		middleware.RequireRole(models.RoleAdmin, models.RoleReviewer),
		handlers.DecideRecommandation,
	)

	// ПЛАНЫ МЕРОПРИЯТИЙ
	auth.GET("/plans", handlers.ListPlans)
	auth.GET("/plans/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.ShowNewPlan,
	)
	auth.POST("/plans/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.CreatePlan,
	)
	auth.POST("/plans/:id/statut",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.ChangePlanStatut,
	)

	// ====== ПРОЕКТЫ УСТРАНЕНИЯ ======
	auth.GET("/projets", handlers.ListProjets)
	auth.GET("/projets/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.ShowNewProjet,
	)
	auth.POST("/projets/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.CreateProjet,
	)
	auth.GET("/projets/:id", handlers.ShowProjetDetail)
	auth.GET("/projets/:id/history", handlers.ShowProjetHistory)

	// этапы жизненного цикла
	auth.POST("/projets/:id/swot",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.RecordSwot,
	)
	auth.POST("/projets/:id/risques",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.RecordRisques,
	)
	auth.POST("/projets/:id/conception",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.SubmitConception,
	)
	auth.POST("/projets/:id/conception/revise",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.ReviseConception,
	)

	// решение по концепции — только ревьюер
	auth.POST("/projets/:id/conception/review",
		middleware.RequireRole(models.RoleReviewer),
		handlers.ReviewConception,
	)

	// удаление проектов — только админ
	auth.POST("/projets/:id/delete",
		middleware.RequireRole(models.RoleAdmin),
		handlers.DeleteProjet,
	)

	// КАТАЛОГ НОРМ
	auth.GET("/normes", handlers.ListNormes)
	auth.GET("/normes/new",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ShowNewNorme,
	)
	auth.POST("/normes/new",
		middleware.RequireRole(models.RoleAdmin),
		handlers.CreateNorme,
	)

	// ЖУРНАЛ
	auth.GET("/journal",
		middleware.RequireRole(models.RoleAdmin, models.RoleViewer),
		handlers.ListJournal,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
