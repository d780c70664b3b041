package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lokasi/internal/pkg/logger"
	"lokasi/internal/pkg/models"
	"lokasi/internal/utils"
	"lokasi/services/capture"
)

// CaptureHandler handles HTTP requests for location capture
type CaptureHandler struct {
	captureUC capture.CaptureUC
}

// NewCaptureHandler creates a new capture HTTP handler
func NewCaptureHandler(captureUC capture.CaptureUC) *CaptureHandler {
	return &CaptureHandler{
		captureUC: captureUC,
	}
}

// CapturePage serves the consent page. The from query parameter is embedded
// verbatim so the page can forward it as phone with the reading; it is
// opaque passthrough, never validated.
func (h *CaptureHandler) CapturePage(c echo.Context) error {
	return renderCapturePage(c, capturePageData{
		Phone: c.QueryParam("from"),
	})
}

// SubmitLocation ingests a geolocation reading posted by the capture page
func (h *CaptureHandler) SubmitLocation(c echo.Context) error {
	var req models.CaptureRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind capture request", logger.Err(err))
		return utils.BadRequestResponse(c, "invalid request body")
	}

	reading, err := h.captureUC.Record(c.Request().Context(), &req, requestMeta(c))
	if err != nil {
		if models.IsValidationError(err) {
			return utils.BadRequestResponse(c, err.Error())
		}
		logger.Error("Failed to record reading", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "failed to record location")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Location recorded", map[string]string{"id": reading.ID})
}

// LogVisit records a capture page visit. The body is optional; a visit with
// no payload still gets its IP and user agent logged.
func (h *CaptureHandler) LogVisit(c echo.Context) error {
	var req models.VisitRequest
	if err := c.Bind(&req); err != nil {
		req = models.VisitRequest{}
	}

	reading, err := h.captureUC.RecordVisit(c.Request().Context(), &req, requestMeta(c))
	if err != nil {
		logger.Error("Failed to record visit", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "failed to record visit")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Visit recorded", map[string]bool{"resolved": reading.HasPosition()})
}

// LatestPage renders the live map view of the most recent reading
func (h *CaptureHandler) LatestPage(c echo.Context) error {
	return renderLatestPage(c)
}

// LatestJSON returns the most recent reading as raw JSON, or 404 with an
// explicit empty marker when nothing has been recorded yet. The 404 is the
// no-data state, not an error.
func (h *CaptureHandler) LatestJSON(c echo.Context) error {
	reading, ok := h.captureUC.Latest(c.Request().Context())
	if !ok {
		return utils.NotFoundResponse(c, "no location recorded yet")
	}

	return c.JSON(http.StatusOK, reading)
}

// HistoryJSON returns every logged reading in arrival order. Diagnostic
// endpoint; it scans the durable log on every call.
func (h *CaptureHandler) HistoryJSON(c echo.Context) error {
	readings, err := h.captureUC.History(c.Request().Context())
	if err != nil {
		logger.Error("Failed to read history", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "failed to read history")
	}

	return utils.SuccessResponse(c, http.StatusOK, "History retrieved", map[string]interface{}{
		"count":    len(readings),
		"readings": readings,
	})
}

// requestMeta captures connection-level facts. RealIP honours
// X-Forwarded-For so tunneled traffic reports the real client.
func requestMeta(c echo.Context) models.RequestMeta {
	return models.RequestMeta{
		SourceIP:  c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
