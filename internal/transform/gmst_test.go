package transform

import (
	"math"
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// TestJulianDate verifies the Julian Date calculation against known values.
func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
	}{
		{
			name:     "J2000.0 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
		},
		{
			// Vallado Example 3-15: April 6, 2004, 07:51:28.386 UTC
			name:     "Vallado example date",
			time:     time.Date(2004, 4, 6, 7, 51, 28, 386009000, time.UTC),
			expected: 2453101.827411875,
		},
		{
			name:     "leap day 2024",
			time:     time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			expected: 2460369.5,
		},
		{
			name:     "year rollover",
			time:     time.Date(2023, 12, 31, 24, 0, 0, 0, time.UTC),
			expected: 2460310.5, // same instant as 2024-01-01T00:00:00Z
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.time)
			diff := math.Abs(got - tt.expected)
			if diff > 1e-6 {
				t.Errorf("JulianDate(%v) = %.10f, want %.10f (diff=%.2e)", tt.time, got, tt.expected, diff)
			}
		})
	}
}

// TestGMST validates the GMST calculation against the go-satellite library's
// GSTimeFromDate function, which uses the same IAU-82 model.
func TestGMST(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
	}{
		{
			name: "J2000.0 epoch",
			time: time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "Vallado example date",
			time: time.Date(2004, 4, 6, 7, 51, 28, 0, time.UTC), // integer seconds for library compat
		},
		{
			name: "scheduling horizon start",
			time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "recent date 2026",
			time: time.Date(2026, 8, 26, 4, 1, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			our := GMST(tt.time)
			// go-satellite's GSTimeFromDate returns GMST in radians.
			ref := satellite.GSTimeFromDate(
				tt.time.Year(), int(tt.time.Month()), tt.time.Day(),
				tt.time.Hour(), tt.time.Minute(), tt.time.Second(),
			)

			diff := math.Abs(our - ref)
			// Allow small difference for float precision; 1e-8 radians ≈ 0.06 arcsec.
			if diff > 1e-8 {
				t.Errorf("GMST(%v) = %.12f rad, go-satellite = %.12f rad (diff=%.2e)", tt.time, our, ref, diff)
			}
		})
	}
}

// TestGMSTJ2000Value pins GMST at the J2000.0 epoch against the published
// value 280.4606°.
func TestGMSTJ2000Value(t *testing.T) {
	got := GMSTHours(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	want := 280.46062 / 15.0
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("GMSTHours(J2000) = %.6f h, want %.6f h", got, want)
	}
}

func TestLSTHours(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gmst := GMSTHours(at)

	tests := []struct {
		name   string
		lonDeg float64
		want   float64
	}{
		{"greenwich", 0, gmst},
		{"east 138", 138, math.Mod(gmst+138.0/15.0, 24)},
		{"west 74", -74, math.Mod(gmst-74.0/15.0+24, 24)},
		{"wraps past date line", 359, math.Mod(gmst+359.0/15.0, 24)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LSTHours(at, tt.lonDeg)
			if got < 0 || got >= 24 {
				t.Fatalf("LSTHours out of range [0,24): %.6f", got)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LSTHours(%v, %.1f) = %.9f, want %.9f", at, tt.lonDeg, got, tt.want)
			}
		})
	}
}

// TestLSTAdvancesSiderealRate checks that LST gains ~3m56s per 24h of civil
// time (one sidereal day is shorter than a solar day).
func TestLSTAdvancesSiderealRate(t *testing.T) {
	start := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	lst0 := LSTHours(start, 0)
	lst1 := LSTHours(start.Add(24*time.Hour), 0)

	gain := math.Mod(lst1-lst0+24, 24)
	wantGain := 24.0 * (366.2422/365.2422 - 1) // ≈ 0.0657 h ≈ 3m56.6s
	if math.Abs(gain-wantGain) > 1e-3 {
		t.Errorf("sidereal gain over 24h = %.6f h, want %.6f h", gain, wantGain)
	}
}
