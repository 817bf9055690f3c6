package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// stationRecord is the JSON form of a station. A record carries either
// geodetic fields or a geocentric "ecef_m" triple; ECEF wins when both are
// present.
type stationRecord struct {
	ID     string      `json:"id"`
	LatDeg float64     `json:"lat_deg"`
	LonDeg float64     `json:"lon_deg"`
	AltM   float64     `json:"alt_m"`
	ECEFM  *[3]float64 `json:"ecef_m,omitempty"`
}

func (r stationRecord) station() Station {
	if r.ECEFM != nil {
		return StationFromECEF(r.ID, r.ECEFM[0], r.ECEFM[1], r.ECEFM[2])
	}
	return Station{ID: r.ID, LatDeg: r.LatDeg, LonDeg: r.LonDeg, AltM: r.AltM}
}

// LoadStations reads and validates a JSON array of station records.
func LoadStations(path string) ([]Station, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading station catalog: %w", err)
	}

	var records []stationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding station catalog %s: %w", path, err)
	}

	stations := make([]Station, 0, len(records))
	for _, r := range records {
		st := r.station()
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("station catalog %s: %w", path, err)
		}
		stations = append(stations, st.Canonical())
	}
	return stations, nil
}

// LoadSources reads and validates a JSON array of source records.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source catalog: %w", err)
	}

	var sources []Source
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("decoding source catalog %s: %w", path, err)
	}

	for _, src := range sources {
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("source catalog %s: %w", path, err)
		}
	}
	return sources, nil
}

// LoadSnapshot loads station and source catalog files into a Snapshot.
func LoadSnapshot(stationPath, sourcePath string) (*Snapshot, error) {
	stations, err := LoadStations(stationPath)
	if err != nil {
		return nil, err
	}
	sources, err := LoadSources(sourcePath)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Stations: stations,
		Sources:  sources,
		Origin:   "file",
		LoadedAt: time.Now().UTC(),
	}, nil
}
