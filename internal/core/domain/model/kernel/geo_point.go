package kernel

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	latitudeMin  = -90.0
	latitudeMax  = 90.0
	longitudeMin = -180.0
	longitudeMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when a GeoPoint was not created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is a WGS84 coordinate pair attached to a delivery address.
//
// The zero value is invalid: (0, 0) is a real place in the Gulf of Guinea, so a
// missing coordinate must not be confused with it. Construct through NewGeoPoint.
type GeoPoint struct { //nolint:recvcheck // setters need pointer receivers
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint validates both coordinates and reports every violation at once.
//
// Example:
//
//	p, err := kernel.NewGeoPoint(52.5200, 13.4050)
//	if err != nil {
//	    return err
//	}
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLatitude(latitude), p.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate returns ErrGeoPointIsNotConstructed for the zero value.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// IsEqual compares coordinates of two constructed points.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.Validate() == nil && other.Validate() == nil &&
		p.latitude == other.latitude && p.longitude == other.longitude
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.latitude, p.longitude)
}

func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < latitudeMin || latitude > latitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, latitudeMin, latitudeMax)
	}
	p.latitude = latitude
	return nil
}

func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < longitudeMin || longitude > longitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, longitudeMin, longitudeMax)
	}
	p.longitude = longitude
	return nil
}
