package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeCoordinates(t *testing.T) {
	hash := EncodeCoordinates(-6.175392, 106.827153, 9)

	assert.Len(t, hash, 9)

	// Same cell for nearby points at coarse precision
	coarse1 := EncodeCoordinates(-6.1753, 106.8271, 5)
	coarse2 := EncodeCoordinates(-6.1754, 106.8272, 5)
	assert.Equal(t, coarse1, coarse2)
}

func TestDecodeGeohash_RoundTrip(t *testing.T) {
	lat, lon := -6.175392, 106.827153
	hash := EncodeCoordinates(lat, lon, 9)

	gotLat, gotLon := DecodeGeohash(hash)

	assert.InDelta(t, lat, gotLat, 0.001)
	assert.InDelta(t, lon, gotLon, 0.001)
}

func TestCalculateDistance(t *testing.T) {
	jakarta := GeoPoint{Latitude: -6.2088, Longitude: 106.8456}
	bandung := GeoPoint{Latitude: -6.9175, Longitude: 107.6191}

	distance := CalculateDistance(jakarta, bandung)

	// Roughly 118 km apart
	assert.InDelta(t, 118.0, distance, 5.0)
}

func TestCalculateDistance_SamePoint(t *testing.T) {
	p := GeoPoint{Latitude: 37.0, Longitude: -122.0}

	assert.Equal(t, 0.0, CalculateDistance(p, p))
}
