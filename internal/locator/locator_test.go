package locator

import (
	"testing"

	"github.com/yourorg/sgbusbot/internal/models"
)

func stopsFixture() []models.StopRecord {
	// Distances from the query point (1.30, 103.85) grow with latitude offset.
	return []models.StopRecord{
		{Code: "00003", Latitude: 1.33, Longitude: 103.85},
		{Code: "00001", Latitude: 1.31, Longitude: 103.85},
		{Code: "00004", Latitude: 1.34, Longitude: 103.85},
		{Code: "00002", Latitude: 1.32, Longitude: 103.85},
	}
}

func TestNearestOrdersByDistance(t *testing.T) {
	result := Nearest(stopsFixture(), 1.30, 103.85, 3)

	if len(result) != 3 {
		t.Fatalf("Expected 3 stops, got %d", len(result))
	}
	want := []string{"00001", "00002", "00003"}
	for i, code := range want {
		if result[i].Stop.Code != code {
			t.Errorf("Position %d: expected %s, got %s", i, code, result[i].Stop.Code)
		}
	}
	if result[0].Meters >= result[1].Meters || result[1].Meters >= result[2].Meters {
		t.Errorf("Distances not ascending: %v, %v, %v", result[0].Meters, result[1].Meters, result[2].Meters)
	}
}

func TestNearestKLargerThanDataset(t *testing.T) {
	result := Nearest(stopsFixture(), 1.30, 103.85, 100)

	if len(result) != 4 {
		t.Fatalf("Expected entire dataset (4 stops), got %d", len(result))
	}
}

func TestNearestTiesKeepDatasetOrder(t *testing.T) {
	// Two stops at the exact same coordinates: dataset order decides.
	stops := []models.StopRecord{
		{Code: "11111", Latitude: 1.31, Longitude: 103.85},
		{Code: "22222", Latitude: 1.31, Longitude: 103.85},
		{Code: "33333", Latitude: 1.30, Longitude: 103.85},
	}

	result := Nearest(stops, 1.30, 103.85, 3)

	if result[0].Stop.Code != "33333" {
		t.Errorf("Expected closest stop first, got %s", result[0].Stop.Code)
	}
	if result[1].Stop.Code != "11111" || result[2].Stop.Code != "22222" {
		t.Errorf("Tie not broken by dataset order: %s, %s", result[1].Stop.Code, result[2].Stop.Code)
	}
}

func TestNearestEmptyDataset(t *testing.T) {
	result := Nearest(nil, 1.30, 103.85, 5)
	if len(result) != 0 {
		t.Errorf("Expected no results for empty dataset, got %d", len(result))
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Roughly 1.11 km per 0.01 degree of latitude at the equator.
	d := haversineDistance(1.30, 103.85, 1.31, 103.85)
	if d < 1050 || d > 1180 {
		t.Errorf("Expected ~1112m, got %v", d)
	}
}
