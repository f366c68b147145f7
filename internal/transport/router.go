package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/llm-roles/internal/domain/event"
	porteventbus "github.com/alanyang/llm-roles/internal/port/eventbus"
	promptsvc "github.com/alanyang/llm-roles/internal/service/prompt"
	rolesvc "github.com/alanyang/llm-roles/internal/service/role"
	templatesvc "github.com/alanyang/llm-roles/internal/service/template"

	mcptransport "github.com/alanyang/llm-roles/internal/transport/mcp"
	rolehandler "github.com/alanyang/llm-roles/internal/transport/role"
	templatehandler "github.com/alanyang/llm-roles/internal/transport/template"
	wshandler "github.com/alanyang/llm-roles/internal/transport/ws"
)

// Options carries the router settings that do not come from services.
type Options struct {
	// JWTSecret enables BearerAuth on every route except /api/health.
	JWTSecret string
}

func NewRouter(
	ctx context.Context,
	opts Options,
	roleSvc *rolesvc.Service,
	templateSvc *templatesvc.Service,
	promptSvc *promptsvc.Service,
	mcpServer *mcptransport.Server,
	eventBus porteventbus.EventBus,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	r.GET("/api/health", health)

	var guards []gin.HandlerFunc
	if opts.JWTSecret != "" {
		guards = append(guards, BearerAuth([]byte(opts.JWTSecret)))
	}

	api := r.Group("/api", guards...)
	rolehandler.Register(api, roleSvc, promptSvc)
	templatehandler.Register(api.Group("/prompt-templates"), templateSvc)

	hub := wshandler.NewHub()
	hub.Register(api.Group("/ws"))

	mcpHandlers := append(append([]gin.HandlerFunc{}, guards...), gin.WrapH(mcpServer.Handler()))
	r.Any("/mcp", mcpHandlers...)

	// One subscription per channel; event.Type in the payload lets clients filter.
	for _, ch := range event.Channels {
		if _, err := eventBus.Subscribe(ctx, ch, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe channel to WS hub", "channel", ch, "error", err)
		}
	}

	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "API服务运行正常"})
}
