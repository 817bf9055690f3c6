package transform

import "math"

// WGS-84 ellipsoid parameters.
const (
	wgs84A  = 6378137.0             // semi-major axis (meters)
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

// GeodeticPoint holds a geodetic position (latitude/longitude in degrees,
// longitude east-positive, altitude in meters above the WGS-84 ellipsoid).
type GeodeticPoint struct {
	LatDeg, LonDeg, AltM float64
}

// ECEFToGeodetic converts ECEF coordinates (meters) to geodetic coordinates
// using the iterative Bowring method. VLBI station catalogs commonly carry
// geocentric XYZ positions; this is the conversion applied once at load time.
func ECEFToGeodetic(x, y, z float64) GeodeticPoint {
	lon := math.Atan2(y, x)

	p := math.Sqrt(x*x + y*y)

	// Initial estimate using Bowring's method.
	lat := math.Atan2(z, p*(1-wgs84E2))

	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(z+wgs84E2*N*sinLat, p)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = p/cosLat - N
	} else {
		alt = math.Abs(z)/math.Abs(sinLat) - N*(1-wgs84E2)
	}

	return GeodeticPoint{
		LatDeg: lat / degToRad,
		LonDeg: lon / degToRad,
		AltM:   alt,
	}
}

// GeodeticToECEF converts geodetic coordinates (degrees, meters above the
// WGS-84 ellipsoid) to ECEF meters.
func GeodeticToECEF(latDeg, lonDeg, altM float64) (x, y, z float64) {
	lat := latDeg * degToRad
	lon := lonDeg * degToRad

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	sinLon := math.Sin(lon)
	cosLon := math.Cos(lon)

	// Radius of curvature in the prime vertical.
	N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	x = (N + altM) * cosLat * cosLon
	y = (N + altM) * cosLat * sinLon
	z = (N*(1-wgs84E2) + altM) * sinLat
	return x, y, z
}
