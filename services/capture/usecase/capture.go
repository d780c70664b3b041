package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"lokasi/internal/pkg/logger"
	"lokasi/internal/pkg/models"
	"lokasi/internal/utils"
	"lokasi/services/capture"
)

// geohashPrecision gives roughly street-level cells (~5m), enough for the
// live view without storing more precision than the raw coordinates.
const geohashPrecision = 9

// CaptureUC implements the capture.CaptureUC interface
type CaptureUC struct {
	repo     capture.CaptureRepo
	resolver capture.GeoResolver
	cfg      *models.Config
}

// NewCaptureUC creates a new capture use case. resolver may be nil when IP
// geolocation is disabled.
func NewCaptureUC(repo capture.CaptureRepo, resolver capture.GeoResolver, cfg *models.Config) *CaptureUC {
	return &CaptureUC{
		repo:     repo,
		resolver: resolver,
		cfg:      cfg,
	}
}

// Record validates the payload, builds an immutable reading with
// server-assigned metadata and stores it.
func (uc *CaptureUC) Record(ctx context.Context, req *models.CaptureRequest, meta models.RequestMeta) (*models.LocationReading, error) {
	lat, err := requireCoordinate(req.Lat, "lat", -90, 90)
	if err != nil {
		return nil, err
	}
	lon, err := requireCoordinate(req.Lon, "lon", -180, 180)
	if err != nil {
		return nil, err
	}
	if req.Accuracy != nil && *req.Accuracy < 0 {
		return nil, models.NewValidationError("accuracy", "must not be negative")
	}

	prev, hadPrev := uc.repo.Latest()

	reading := &models.LocationReading{
		ID:         uuid.New().String(),
		Latitude:   &lat,
		Longitude:  &lon,
		Accuracy:   req.Accuracy,
		ObservedAt: normalizeTimestamp(req.TS),
		DeviceInfo: utils.Truncate(utils.SanitizeString(req.DeviceInfo), uc.deviceInfoMax()),
		Name:       utils.SanitizeString(req.Name),
		Phone:      req.Phone,
		SourceIP:   meta.SourceIP,
		UserAgent:  utils.Truncate(meta.UserAgent, uc.deviceInfoMax()),
		Source:     models.SourceGPS,
		Geohash:    utils.EncodeCoordinates(lat, lon, geohashPrecision),
		ReceivedAt: models.Now(),
	}

	if err := uc.repo.Record(reading); err != nil {
		// The latest cell is already updated; losing a history line is
		// preferable to losing the live view.
		logger.Error("Failed to append reading to history log",
			logger.String("reading_id", reading.ID),
			logger.Err(err))
	}

	fields := []logger.Field{
		logger.String("reading_id", reading.ID),
		logger.Float64("latitude", lat),
		logger.Float64("longitude", lon),
		logger.String("geohash", reading.Geohash),
	}
	if reading.Phone != "" {
		fields = append(fields, logger.String("phone", utils.MaskPhoneNumber(reading.Phone)))
	}
	if hadPrev && prev.HasPosition() {
		fields = append(fields, logger.Float64("moved_km", utils.CalculateDistance(
			utils.GeoPoint{Latitude: *prev.Latitude, Longitude: *prev.Longitude},
			utils.GeoPoint{Latitude: lat, Longitude: lon})))
	}
	logger.Info("Location reading accepted", fields...)

	return reading, nil
}

// RecordVisit records a capture page visit. When a resolver is configured
// and yields coordinates, the visit also replaces the latest reading;
// otherwise it is logged as history only.
func (uc *CaptureUC) RecordVisit(ctx context.Context, req *models.VisitRequest, meta models.RequestMeta) (*models.LocationReading, error) {
	reading := &models.LocationReading{
		ID:         uuid.New().String(),
		ObservedAt: normalizeTimestamp(req.TS),
		Name:       utils.SanitizeString(req.Name),
		Phone:      req.Phone,
		SourceIP:   meta.SourceIP,
		UserAgent:  utils.Truncate(meta.UserAgent, uc.deviceInfoMax()),
		Source:     models.SourceIPLog,
		ReceivedAt: models.Now(),
	}

	if uc.resolver != nil && meta.SourceIP != "" {
		lookup, err := uc.resolver.Resolve(ctx, meta.SourceIP)
		if err != nil {
			logger.Warn("IP geolocation lookup failed",
				logger.String("ip", meta.SourceIP),
				logger.Err(err))
		} else if lookup != nil {
			reading.GeoMeta = lookup.Meta
			if lookup.Latitude != nil && lookup.Longitude != nil {
				reading.Latitude = lookup.Latitude
				reading.Longitude = lookup.Longitude
				reading.Geohash = utils.EncodeCoordinates(*lookup.Latitude, *lookup.Longitude, geohashPrecision)
			}
		}
	}

	var storeErr error
	if reading.HasPosition() {
		storeErr = uc.repo.Record(reading)
	} else {
		storeErr = uc.repo.Append(reading)
	}
	if storeErr != nil {
		logger.Error("Failed to append visit to history log",
			logger.String("reading_id", reading.ID),
			logger.Err(storeErr))
	}

	logger.Info("Capture page visit recorded",
		logger.String("reading_id", reading.ID),
		logger.String("ip", meta.SourceIP),
		logger.Bool("resolved", reading.HasPosition()))

	return reading, nil
}

// Latest returns the most recently accepted reading
func (uc *CaptureUC) Latest(ctx context.Context) (*models.LocationReading, bool) {
	return uc.repo.Latest()
}

// History returns every logged reading in arrival order
func (uc *CaptureUC) History(ctx context.Context) ([]*models.LocationReading, error) {
	return uc.repo.History()
}

func (uc *CaptureUC) deviceInfoMax() int {
	if uc.cfg == nil || uc.cfg.Storage.DeviceInfoMax <= 0 {
		return 512
	}
	return uc.cfg.Storage.DeviceInfoMax
}

// requireCoordinate distinguishes a missing coordinate from a non-numeric
// one so the validation error can name what went wrong.
func requireCoordinate(raw json.RawMessage, field string, min, max float64) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, models.NewValidationError(field, "is required")
	}

	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, models.NewValidationError(field, "must be a number")
	}

	if value < min || value > max {
		return 0, models.NewValidationError(field, fmt.Sprintf("must be between %g and %g", min, max))
	}

	return value, nil
}

// normalizeTimestamp keeps the client timestamp as an opaque string; it is
// recorded but never parsed, received_at is authoritative for ordering.
func normalizeTimestamp(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}
