package sync

import (
	"encoding/json"
	"time"
)

// HydrologyDelta is one above-threshold per-cell water-depth change,
// published so external visualizers and the still-inert vegetation/soil
// subsystems can track what moved without re-reading whole tiles.
type HydrologyDelta struct {
	Cx     int     `json:"cx"`
	Cy     int     `json:"cy"`
	Lx     int     `json:"lx"`
	Ly     int     `json:"ly"`
	DeltaM float64 `json:"deltaM"`
}

// NewHydrologyDeltaChange encodes d as a Change ready for
// BatchManager.AddChange.
func NewHydrologyDeltaChange(d HydrologyDelta, sourceRegion string) (Change, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return Change{}, err
	}
	return Change{
		Data:         data,
		Priority:     3,
		Timestamp:    time.Now().UTC(),
		SourceRegion: sourceRegion,
		ChangeType:   "HydrologyDelta",
	}, nil
}
