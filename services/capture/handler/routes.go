package handler

import (
	"github.com/labstack/echo/v4"

	"lokasi/internal/pkg/health"
	"lokasi/internal/pkg/logger"
	"lokasi/internal/pkg/middleware"
	capturehttp "lokasi/services/capture/handler/http"

	"lokasi/services/capture"
)

// RegisterRoutes wires the capture service routes and middleware onto the
// Echo instance.
func RegisterRoutes(e *echo.Echo, captureUC capture.CaptureUC, appLogger *logger.AppLogger, serviceName string) {
	e.Use(middleware.RequestContextMiddleware(serviceName))
	e.Use(middleware.LoggerMiddleware(appLogger))
	e.Use(middleware.PanicRecoveryWithLogger(appLogger))

	health.RegisterHealthEndpoints(e, serviceName)

	h := capturehttp.NewCaptureHandler(captureUC)

	e.GET("/", h.CapturePage)
	e.POST("/loc", h.SubmitLocation)
	e.POST("/iplog", h.LogVisit)
	e.GET("/latest", h.LatestPage)
	e.GET("/latest.json", h.LatestJSON)
	e.GET("/history.json", h.HistoryJSON)
}
