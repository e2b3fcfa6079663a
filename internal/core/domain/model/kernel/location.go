package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
)

// KmPerDegree approximates the kilometers spanned by one degree of latitude or
// longitude at the equator. Both distance variants scale by it.
const KmPerDegree = 111.0

// Location is an immutable value object holding a geographic coordinate.
// Components must be finite; NaN and infinite values are rejected at construction.
//
// Example:
//
//	loc, err := kernel.NewLocation(19.0760, 72.8777)
//	if err != nil {
//	    // Handle validation error
//	}
type Location struct { //nolint:recvcheck //using for validation
	lat float64
	lng float64
}

// NewLocation creates a Location from latitude and longitude.
// Returns an error listing every non-finite component.
func NewLocation(lat float64, lng float64) (Location, error) {
	loc := Location{}

	if err := errors.Join(loc.setLat(lat), loc.setLng(lng)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// Lat returns the latitude component in degrees.
func (l Location) Lat() float64 {
	return l.lat
}

// Lng returns the longitude component in degrees.
func (l Location) Lng() float64 {
	return l.lng
}

// String implements fmt.Stringer, formatting both components to four decimals.
func (l Location) String() string {
	return fmt.Sprintf("Location(%.4f,%.4f)", l.lat, l.lng)
}

// IsEqual compares two locations component-wise.
func (l Location) IsEqual(other Location) bool {
	return l == other
}

// DistanceKm calculates the Manhattan distance to another location in kilometers:
// (|Δlat| + |Δlng|) scaled by KmPerDegree, rounded to two decimal places.
// This is the distance the assignment engine ranks couriers by.
//
// Example:
//
//	a, _ := kernel.NewLocation(19.0760, 72.8777)
//	b, _ := kernel.NewLocation(19.0896, 72.8656)
//	d := a.DistanceKm(b) // 2.85
func (l Location) DistanceKm(other Location) float64 {
	d := (math.Abs(l.lat-other.lat) + math.Abs(l.lng-other.lng)) * KmPerDegree
	return roundKm(d)
}

// EuclideanKm calculates the straight-line distance to another location in
// kilometers, rounded to two decimal places. Offered for diagnostics only; no
// control-flow decision depends on it.
func (l Location) EuclideanKm(other Location) float64 {
	latDiff := l.lat - other.lat
	lngDiff := l.lng - other.lng
	d := math.Sqrt(latDiff*latDiff+lngDiff*lngDiff) * KmPerDegree
	return roundKm(d)
}

// DegreeDistance calculates the unscaled Manhattan distance to another location
// in raw degrees: |Δlat| + |Δlng|, no rounding. The progression validator measures
// the proximity threshold against this value.
func (l Location) DegreeDistance(other Location) float64 {
	return math.Abs(l.lat-other.lat) + math.Abs(l.lng-other.lng)
}

// StepTowards computes a single movement increment from this location toward target.
// Let d be the straight-line distance in raw degrees: when d < step the result is
// exactly target and reached is true; otherwise the result lies on the straight line
// toward target, step degrees away, and reached is false.
func (l Location) StepTowards(target Location, step float64) (Location, bool) {
	latDiff := target.lat - l.lat
	lngDiff := target.lng - l.lng

	d := math.Sqrt(latDiff*latDiff + lngDiff*lngDiff)
	if d < step {
		return target, true
	}

	ratio := step / d
	return Location{
		lat: l.lat + latDiff*ratio,
		lng: l.lng + lngDiff*ratio,
	}, false
}

func (l *Location) setLat(lat float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return errs.NewValueIsInvalidErrorWithCause("lat", fmt.Errorf("%v is not finite", lat))
	}

	l.lat = lat
	return nil
}

func (l *Location) setLng(lng float64) error {
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return errs.NewValueIsInvalidErrorWithCause("lng", fmt.Errorf("%v is not finite", lng))
	}

	l.lng = lng
	return nil
}

func roundKm(v float64) float64 {
	return math.Round(v*100) / 100
}
