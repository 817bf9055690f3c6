package transform

import (
	"math"
	"testing"
)

// TestECEFToGeodetic_Yamaguchi converts the Yamaguchi 32m antenna position
// (geocentric XYZ as listed in VLBI station catalogs) and checks it lands at
// the known site coordinates.
func TestECEFToGeodetic_Yamaguchi(t *testing.T) {
	geo := ECEFToGeodetic(-3502544.587, 3950966.235, 3566381.192)

	if math.Abs(geo.LatDeg-34.216) > 0.05 {
		t.Errorf("latitude = %.4f, want ~34.216", geo.LatDeg)
	}
	if math.Abs(geo.LonDeg-131.557) > 0.05 {
		t.Errorf("longitude = %.4f, want ~131.557", geo.LonDeg)
	}
	if geo.AltM < -100 || geo.AltM > 600 {
		t.Errorf("altitude = %.1f m, want a plausible site height", geo.AltM)
	}
}

// TestGeodeticRoundTrip converts geodetic → ECEF → geodetic and expects to
// recover the input to sub-millimeter / sub-microdegree accuracy.
func TestGeodeticRoundTrip(t *testing.T) {
	tests := []struct {
		name             string
		lat, lon, alt float64
	}{
		{"equator prime meridian", 0, 0, 0},
		{"mid latitude", 35.0, 138.0, 120},
		{"southern hemisphere", -42.8, 147.4, 43},
		{"near pole", 89.5, -20, 10},
		{"west longitude", 40.7128, -74.006, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, z := GeodeticToECEF(tt.lat, tt.lon, tt.alt)
			geo := ECEFToGeodetic(x, y, z)

			if math.Abs(geo.LatDeg-tt.lat) > 1e-9 {
				t.Errorf("latitude round trip: got %.12f, want %.12f", geo.LatDeg, tt.lat)
			}
			if math.Abs(geo.LonDeg-tt.lon) > 1e-9 {
				t.Errorf("longitude round trip: got %.12f, want %.12f", geo.LonDeg, tt.lon)
			}
			if math.Abs(geo.AltM-tt.alt) > 1e-3 {
				t.Errorf("altitude round trip: got %.6f, want %.6f", geo.AltM, tt.alt)
			}
		})
	}
}

// TestGeodeticToECEF_Magnitude pins the ECEF magnitude at the equator and the
// pole against the WGS-84 radii.
func TestGeodeticToECEF_Magnitude(t *testing.T) {
	x, y, z := GeodeticToECEF(0, 0, 0)
	mag := math.Sqrt(x*x + y*y + z*z)
	if math.Abs(mag-6378137.0) > 1.0 {
		t.Errorf("equatorial ECEF magnitude = %.1f m, want ~6378137 m", mag)
	}

	x, y, z = GeodeticToECEF(90, 0, 0)
	mag = math.Sqrt(x*x + y*y + z*z)
	if math.Abs(mag-6356752.3) > 1.0 {
		t.Errorf("polar ECEF magnitude = %.1f m, want ~6356752 m", mag)
	}
}
