package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(h *ScrapeHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), CORSMiddleware())

	r.GET("/", HandleRoot)
	r.GET("/healthz", HandleHealthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.POST("/run/scrapper", h.HandleRunScrapper)

	return r
}
