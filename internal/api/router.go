package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-csv-aggregator/docs"
	"go-csv-aggregator/internal/api/handler"
	"go-csv-aggregator/pkg/router"
)

// @title CSV Aggregator API
// @version 1.0
// @description Upload a CSV file, group and aggregate it, and download the result.
// @BasePath /api/v1

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/", h.Index)
	r.GET("/healthz", h.Health)
	r.GET("/api/v1/healthz", h.Health)

	r.GET("/api/v1/session", h.GetSession)
	r.POST("/api/v1/session/upload", h.Upload)
	r.POST("/api/v1/session/select", h.Select)
	r.POST("/api/v1/session/aggregate", h.Aggregate)
	r.GET("/api/v1/session/logs", h.GetLogs)
	r.GET("/api/v1/session/tables/*", h.GetTable)
	r.GET("/api/v1/session/download/*", h.Download)

	r.Handle("/swagger/", httpSwagger.WrapHandler)
}
