package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/pjackim/webbuddy/pkg/logger"
)

type RouterOptions struct {
	ServiceName string
	CORSOrigins []string
	UploadDir   string
	Tracing     bool
}

type Handlers struct {
	Screens   *ScreenHandler
	Assets    *AssetHandler
	Media     *MediaHandler
	WebSocket http.HandlerFunc
}

func NewRouter(h Handlers, opts RouterOptions, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if opts.Tracing {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(RequestLogger(log))
	router.Use(CORSMiddleware(opts.CORSOrigins))
	router.Use(ErrorMiddleware(log))

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", gin.WrapF(h.WebSocket))
	if opts.UploadDir != "" {
		router.Static("/uploads", opts.UploadDir)
	}

	api := router.Group("/api")
	{
		screens := api.Group("/screens")
		{
			screens.GET("", h.Screens.ListScreens)
			screens.POST("", h.Screens.CreateScreen)
			screens.PUT("/:id", h.Screens.UpdateScreen)
			screens.DELETE("/:id", h.Screens.DeleteScreen)
		}

		assets := api.Group("/assets")
		{
			assets.GET("", h.Assets.ListAssets)
			assets.POST("", h.Assets.CreateAsset)
			assets.PUT("/:id", h.Assets.UpdateAsset)
			assets.DELETE("/:id", h.Assets.DeleteAsset)

			assets.POST("/upload", h.Media.UploadMedia)
			assets.GET("/raw/:filename", h.Media.GetRawMedia)
			assets.GET("/info/:filename", h.Media.GetMediaInfo)
		}
	}

	return router
}
