package validation

import (
	"fmt"
	"math"
)

// CoordinateError reports an invalid coordinate value.
type CoordinateError struct {
	Field   string
	Value   float64
	Message string
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("%s: %s (value: %.6f)", e.Field, e.Message, e.Value)
}

// ValidateLatitude validates a latitude coordinate.
func ValidateLatitude(lat float64, fieldName string) error {
	if math.IsNaN(lat) {
		return &CoordinateError{
			Field:   fieldName,
			Value:   lat,
			Message: "NaN value not allowed",
		}
	}

	if math.IsInf(lat, 0) {
		return &CoordinateError{
			Field:   fieldName,
			Value:   lat,
			Message: "infinite value not allowed",
		}
	}

	if lat < -90 || lat > 90 {
		return &CoordinateError{
			Field:   fieldName,
			Value:   lat,
			Message: "must be between -90 and 90",
		}
	}

	return nil
}

// ValidateLongitude validates a longitude coordinate.
func ValidateLongitude(lon float64, fieldName string) error {
	if math.IsNaN(lon) {
		return &CoordinateError{
			Field:   fieldName,
			Value:   lon,
			Message: "NaN value not allowed",
		}
	}

	if math.IsInf(lon, 0) {
		return &CoordinateError{
			Field:   fieldName,
			Value:   lon,
			Message: "infinite value not allowed",
		}
	}

	if lon < -180 || lon > 180 {
		return &CoordinateError{
			Field:   fieldName,
			Value:   lon,
			Message: "must be between -180 and 180",
		}
	}

	return nil
}

// ValidatePoint validates a latitude/longitude pair.
func ValidatePoint(lat, lon float64) error {
	if err := ValidateLatitude(lat, "latitude"); err != nil {
		return err
	}
	return ValidateLongitude(lon, "longitude")
}
