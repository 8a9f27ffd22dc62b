package domain

import "math"

type Coordinates struct {
	Lat float64
	Lng float64
}

// Valid reports whether both components are finite and within range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type Branch struct {
	ID          string
	Name        string
	Address     string
	Coordinates *Coordinates
}

type BranchCandidate struct {
	Branch         Branch
	DistanceMeters float64
	DistanceKnown  bool
	DistanceLabel  string
}

// TrailEntry is one step of the branch selection decision trail.
type TrailEntry struct {
	BranchID      string `json:"branch_id"`
	BranchName    string `json:"branch_name"`
	DistanceLabel string `json:"distance"`
	Satisfied     bool   `json:"satisfied"`
	Shortages     string `json:"shortages,omitempty"`
	Error         string `json:"error,omitempty"`
}

type Selection struct {
	Candidate BranchCandidate
	Trail     []TrailEntry
}
