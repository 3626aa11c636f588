package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/moamoa-kids/moamoa-web/internal/config"
	"github.com/moamoa-kids/moamoa-web/internal/core"
	"github.com/moamoa-kids/moamoa-web/internal/policy"
	"github.com/moamoa-kids/moamoa-web/internal/web"
)

// NewServer builds the HTTP server: /ws goes straight to the websocket handler,
// everything else to the gin router.
func NewServer(hub *core.Hub, pages *web.Pages, pol policy.Policy, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.CORSOrigins))

	router.GET("/health", healthHandler)
	router.StaticFS("/static", stdhttp.FS(web.Static()))

	pageHandlers := NewPageHandlers(hub, pages, pol, cfg.Kakao, logger)
	router.GET("/", pageHandlers.Landing)
	router.GET(loginPath, pageHandlers.Login)
	router.GET(signupPath, pageHandlers.Signup)
	router.GET(kakaoPath, pageHandlers.KakaoLogin)
	router.GET("/fragments/header", pageHandlers.Header)
	router.GET("/fragments/footer", pageHandlers.Footer)

	chatHandlers := NewChatHandlers(hub, logger)
	api := router.Group("/api")
	{
		api.GET("/policy/:kind", pageHandlers.Policy)

		chat := api.Group("/chat")
		chat.GET("/quick-replies", chatHandlers.QuickReplies)
		chat.POST("/sessions", chatHandlers.CreateSession)
		chat.GET("/sessions/:id", chatHandlers.GetSession)
		chat.DELETE("/sessions/:id", chatHandlers.DeleteSession)
		chat.GET("/sessions/:id/render", chatHandlers.RenderSession)
		chat.POST("/sessions/:id/replies", chatHandlers.SubmitReply)
		chat.GET("/sessions/:id/events", chatHandlers.Events)
	}

	// Accept must hijack a connection gin has not written to.
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, cfg.WSRateLimit, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
