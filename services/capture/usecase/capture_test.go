package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lokasi/internal/pkg/models"
)

// Mock Capture Repository
type MockCaptureRepo struct {
	mock.Mock
}

func (m *MockCaptureRepo) Record(reading *models.LocationReading) error {
	args := m.Called(reading)
	return args.Error(0)
}

func (m *MockCaptureRepo) Append(reading *models.LocationReading) error {
	args := m.Called(reading)
	return args.Error(0)
}

func (m *MockCaptureRepo) Latest() (*models.LocationReading, bool) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*models.LocationReading), args.Bool(1)
}

func (m *MockCaptureRepo) History() ([]*models.LocationReading, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LocationReading), args.Error(1)
}

// Mock Geo Resolver
type MockGeoResolver struct {
	mock.Mock
}

func (m *MockGeoResolver) Resolve(ctx context.Context, ip string) (*models.GeoLookup, error) {
	args := m.Called(ctx, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GeoLookup), args.Error(1)
}

func testConfig() *models.Config {
	cfg := &models.Config{}
	cfg.Storage.DeviceInfoMax = 64
	return cfg
}

func captureRequest(lat, lon string) *models.CaptureRequest {
	req := &models.CaptureRequest{}
	if lat != "" {
		req.Lat = json.RawMessage(lat)
	}
	if lon != "" {
		req.Lon = json.RawMessage(lon)
	}
	return req
}

func TestCaptureUC_Record_Validation(t *testing.T) {
	tests := []struct {
		name          string
		request       *models.CaptureRequest
		expectedField string
	}{
		{
			name:          "Missing latitude",
			request:       captureRequest("", "-122.0"),
			expectedField: "lat",
		},
		{
			name:          "Missing longitude",
			request:       captureRequest("37.0", ""),
			expectedField: "lon",
		},
		{
			name:          "Null latitude",
			request:       captureRequest("null", "-122.0"),
			expectedField: "lat",
		},
		{
			name:          "Non-numeric latitude",
			request:       captureRequest(`"not-a-number"`, "-122.0"),
			expectedField: "lat",
		},
		{
			name:          "Non-numeric longitude",
			request:       captureRequest("37.0", `"east"`),
			expectedField: "lon",
		},
		{
			name:          "Latitude above range",
			request:       captureRequest("90.1", "0"),
			expectedField: "lat",
		},
		{
			name:          "Latitude below range",
			request:       captureRequest("-91", "0"),
			expectedField: "lat",
		},
		{
			name:          "Longitude above range",
			request:       captureRequest("0", "180.5"),
			expectedField: "lon",
		},
		{
			name:          "Longitude below range",
			request:       captureRequest("0", "-181"),
			expectedField: "lon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCaptureRepo)
			uc := NewCaptureUC(mockRepo, nil, testConfig())

			reading, err := uc.Record(context.Background(), tt.request, models.RequestMeta{})

			assert.Nil(t, reading)
			assert.Error(t, err)
			assert.True(t, models.IsValidationError(err))

			var ve *models.ValidationError
			assert.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.expectedField, ve.Field)
			assert.Contains(t, err.Error(), tt.expectedField)

			// A rejected payload must never reach the store
			mockRepo.AssertNotCalled(t, "Record", mock.Anything)
			mockRepo.AssertNotCalled(t, "Append", mock.Anything)
		})
	}
}

func TestCaptureUC_Record_NegativeAccuracy(t *testing.T) {
	mockRepo := new(MockCaptureRepo)
	uc := NewCaptureUC(mockRepo, nil, testConfig())

	accuracy := -5.0
	req := captureRequest("37.0", "-122.0")
	req.Accuracy = &accuracy

	reading, err := uc.Record(context.Background(), req, models.RequestMeta{})

	assert.Nil(t, reading)
	var ve *models.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "accuracy", ve.Field)
	mockRepo.AssertNotCalled(t, "Record", mock.Anything)
}

func TestCaptureUC_Record_Success(t *testing.T) {
	mockRepo := new(MockCaptureRepo)
	mockRepo.On("Latest").Return(nil, false)
	mockRepo.On("Record", mock.Anything).Return(nil)

	uc := NewCaptureUC(mockRepo, nil, testConfig())

	accuracy := 5.0
	req := captureRequest("37.0", "-122.0")
	req.Accuracy = &accuracy
	req.TS = json.RawMessage("1699999999999")
	req.DeviceInfo = "Mozilla/5.0 (Test)"
	req.Phone = "+15551234567"

	meta := models.RequestMeta{SourceIP: "203.0.113.9", UserAgent: "Mozilla/5.0 (Test)"}

	reading, err := uc.Record(context.Background(), req, meta)

	assert.NoError(t, err)
	assert.NotNil(t, reading)
	assert.NotEmpty(t, reading.ID)
	assert.Equal(t, 37.0, *reading.Latitude)
	assert.Equal(t, -122.0, *reading.Longitude)
	assert.Equal(t, 5.0, *reading.Accuracy)
	assert.Equal(t, "1699999999999", reading.ObservedAt)
	assert.Equal(t, "Mozilla/5.0 (Test)", reading.DeviceInfo)
	assert.Equal(t, "+15551234567", reading.Phone)
	assert.Equal(t, "203.0.113.9", reading.SourceIP)
	assert.Equal(t, models.SourceGPS, reading.Source)
	assert.Len(t, reading.Geohash, geohashPrecision)
	assert.False(t, reading.ReceivedAt.IsZero())

	mockRepo.AssertExpectations(t)
}

func TestCaptureUC_Record_TruncatesDeviceInfo(t *testing.T) {
	mockRepo := new(MockCaptureRepo)
	mockRepo.On("Latest").Return(nil, false)
	mockRepo.On("Record", mock.Anything).Return(nil)

	uc := NewCaptureUC(mockRepo, nil, testConfig())

	req := captureRequest("1.0", "2.0")
	req.DeviceInfo = strings.Repeat("x", 500)

	reading, err := uc.Record(context.Background(), req, models.RequestMeta{})

	assert.NoError(t, err)
	assert.LessOrEqual(t, len(reading.DeviceInfo), 64)
}

func TestCaptureUC_Record_StringTimestampKept(t *testing.T) {
	mockRepo := new(MockCaptureRepo)
	mockRepo.On("Latest").Return(nil, false)
	mockRepo.On("Record", mock.Anything).Return(nil)

	uc := NewCaptureUC(mockRepo, nil, testConfig())

	req := captureRequest("1.0", "2.0")
	req.TS = json.RawMessage(`"2026-01-02T15:04:05Z"`)

	reading, err := uc.Record(context.Background(), req, models.RequestMeta{})

	assert.NoError(t, err)
	assert.Equal(t, "2026-01-02T15:04:05Z", reading.ObservedAt)
}

func TestCaptureUC_Record_StorageFailureAbsorbed(t *testing.T) {
	mockRepo := new(MockCaptureRepo)
	mockRepo.On("Latest").Return(nil, false)
	mockRepo.On("Record", mock.Anything).Return(errors.New("disk full"))

	uc := NewCaptureUC(mockRepo, nil, testConfig())

	reading, err := uc.Record(context.Background(), captureRequest("37.0", "-122.0"), models.RequestMeta{})

	// Losing history must not fail the request
	assert.NoError(t, err)
	assert.NotNil(t, reading)
	mockRepo.AssertExpectations(t)
}

func TestCaptureUC_RecordVisit_WithoutResolver(t *testing.T) {
	mockRepo := new(MockCaptureRepo)
	mockRepo.On("Append", mock.Anything).Return(nil)

	uc := NewCaptureUC(mockRepo, nil, testConfig())

	reading, err := uc.RecordVisit(context.Background(), &models.VisitRequest{Phone: "+628111"}, models.RequestMeta{
		SourceIP:  "198.51.100.7",
		UserAgent: "Mozilla/5.0",
	})

	assert.NoError(t, err)
	assert.False(t, reading.HasPosition())
	assert.Equal(t, models.SourceIPLog, reading.Source)
	assert.Equal(t, "198.51.100.7", reading.SourceIP)

	// An unresolved visit must not replace the latest reading
	mockRepo.AssertNotCalled(t, "Record", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCaptureUC_RecordVisit_ResolvedUpdatesLatest(t *testing.T) {
	lat, lon := -6.2, 106.8

	mockRepo := new(MockCaptureRepo)
	mockRepo.On("Record", mock.Anything).Return(nil)

	mockResolver := new(MockGeoResolver)
	mockResolver.On("Resolve", mock.Anything, "198.51.100.7").Return(&models.GeoLookup{
		Latitude:  &lat,
		Longitude: &lon,
		Meta:      map[string]string{"city": "Jakarta"},
	}, nil)

	uc := NewCaptureUC(mockRepo, mockResolver, testConfig())

	reading, err := uc.RecordVisit(context.Background(), &models.VisitRequest{}, models.RequestMeta{SourceIP: "198.51.100.7"})

	assert.NoError(t, err)
	assert.True(t, reading.HasPosition())
	assert.Equal(t, -6.2, *reading.Latitude)
	assert.Equal(t, 106.8, *reading.Longitude)
	assert.Equal(t, "Jakarta", reading.GeoMeta["city"])
	assert.NotEmpty(t, reading.Geohash)

	mockRepo.AssertExpectations(t)
	mockResolver.AssertExpectations(t)
}

func TestCaptureUC_RecordVisit_ResolverFailureTolerated(t *testing.T) {
	mockRepo := new(MockCaptureRepo)
	mockRepo.On("Append", mock.Anything).Return(nil)

	mockResolver := new(MockGeoResolver)
	mockResolver.On("Resolve", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	uc := NewCaptureUC(mockRepo, mockResolver, testConfig())

	reading, err := uc.RecordVisit(context.Background(), &models.VisitRequest{}, models.RequestMeta{SourceIP: "198.51.100.7"})

	assert.NoError(t, err)
	assert.False(t, reading.HasPosition())
	mockRepo.AssertExpectations(t)
}

func TestCaptureUC_LatestPassthrough(t *testing.T) {
	stored := &models.LocationReading{ID: "abc"}

	mockRepo := new(MockCaptureRepo)
	mockRepo.On("Latest").Return(stored, true)

	uc := NewCaptureUC(mockRepo, nil, testConfig())

	reading, ok := uc.Latest(context.Background())

	assert.True(t, ok)
	assert.Equal(t, "abc", reading.ID)
}

func TestCaptureUC_HistoryPassthrough(t *testing.T) {
	mockRepo := new(MockCaptureRepo)
	mockRepo.On("History").Return([]*models.LocationReading{{ID: "a"}, {ID: "b"}}, nil)

	uc := NewCaptureUC(mockRepo, nil, testConfig())

	readings, err := uc.History(context.Background())

	assert.NoError(t, err)
	assert.Len(t, readings, 2)
}
