package transform

import "math"

const degToRad = math.Pi / 180.0

// Horizontal converts equatorial source coordinates to horizontal coordinates
// for a station at the given geodetic latitude and local sidereal time.
//
// Inputs: right ascension and declination in degrees, latitude in degrees,
// local mean sidereal time in hours.
//
// Output convention: azimuth in [0, 360) with 0 = North increasing toward
// East, elevation in [-90, 90]. At the poles (lat = ±90) azimuth is
// geometrically undefined; 0 is reported by convention.
//
// All angular inputs are range-reduced before use; the result is NaN-free for
// any latitude in [-90, 90] and any RA/Dec in their valid domains.
func Horizontal(raDeg, decDeg, latDeg, lstHours float64) (azDeg, elDeg float64) {
	// Hour angle: LST - RA, wrapped to (-180, 180] degrees.
	haDeg := wrapSigned(lstHours*15.0 - raDeg)

	ha := haDeg * degToRad
	dec := decDeg * degToRad
	lat := latDeg * degToRad

	sinDec, cosDec := math.Sincos(dec)
	sinLat, cosLat := math.Sincos(lat)
	sinHA, cosHA := math.Sincos(ha)

	// Elevation. The clamp guards against |sinEl| drifting past 1 through
	// rounding, which would make Asin return NaN.
	sinEl := sinDec*sinLat + cosDec*cosLat*cosHA
	elDeg = math.Asin(clamp(sinEl, -1, 1)) / degToRad

	if math.Abs(latDeg) == 90 {
		return 0, elDeg
	}

	// Azimuth measured clockwise from North.
	az := math.Atan2(-sinHA*cosDec, cosLat*sinDec-sinLat*cosDec*cosHA)
	azDeg = az / degToRad
	if azDeg < 0 {
		azDeg += 360
	}
	// Atan2 can return exactly -0 or ±π; keep the canonical half-open range.
	if azDeg >= 360 {
		azDeg -= 360
	}

	return azDeg, elDeg
}

// HourAngle returns the hour angle LST - RA in degrees, wrapped to (-180, 180].
func HourAngle(raDeg, lstHours float64) float64 {
	return wrapSigned(lstHours*15.0 - raDeg)
}

// wrapSigned wraps an angle in degrees into (-180, 180].
func wrapSigned(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
