package handlers

import (
	"embed"
	"html/template"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/cover-letter-studio/internal/auth"
)

//go:embed templates/*.html
var templatesFS embed.FS

// RouterConfig carries what the router needs beyond the handler itself.
type RouterConfig struct {
	SessionSecret   string
	SessionTTL      time.Duration
	SecureCookies   bool
	AllowAllOrigins bool
	AllowedOrigins  []string // used when AllowAllOrigins is false
}

// NewRouter builds the gin engine with CORS, session cookies and all routes.
func NewRouter(h *FormHandler, cfg RouterConfig) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if cfg.AllowAllOrigins {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	r.Use(cors.New(corsConfig))

	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	r.GET("/api/v1/health", HealthCheck)

	session := auth.Middleware(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)
	r.GET("/", session, h.Index)

	api := r.Group("/api/v1", session)
	{
		// Draft Routes
		api.GET("/draft", h.GetDraft)
		api.PUT("/draft/fields", h.SetField)
		api.PUT("/draft/job-description", h.SetJobDescription)
		api.PUT("/draft/file", h.UploadFile)
		api.DELETE("/draft/file", h.ClearFile)

		// Submission Routes
		api.POST("/submit/:variant", h.Submit)
		api.GET("/downloads/:token", h.Download)
		api.GET("/submissions", h.ListSubmissions)
	}

	return r
}
