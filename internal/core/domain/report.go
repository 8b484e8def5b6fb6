package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportType classifies what a report points at.
type ReportType string

const (
	ReportHighlight ReportType = "highlight"
	ReportDanger    ReportType = "danger"
	ReportProblem   ReportType = "problem"
)

// ReportTypes lists every valid report type, for the catalog endpoint.
var ReportTypes = []ReportType{ReportHighlight, ReportDanger, ReportProblem}

func (t ReportType) IsValid() bool {
	switch t {
	case ReportHighlight, ReportDanger, ReportProblem:
		return true
	default:
		return false
	}
}

// ReportStatus is the moderation lifecycle state of a report.
type ReportStatus string

const (
	StatusPendingReview ReportStatus = "pending_review"
	StatusActive        ReportStatus = "active"
	StatusResolved      ReportStatus = "resolved"
	StatusArchived      ReportStatus = "archived"
	StatusRejected      ReportStatus = "rejected"
)

// ReportStatuses lists every valid report status, for the catalog endpoint.
var ReportStatuses = []ReportStatus{
	StatusPendingReview, StatusActive, StatusResolved, StatusArchived, StatusRejected,
}

func (s ReportStatus) IsValid() bool {
	switch s {
	case StatusPendingReview, StatusActive, StatusResolved, StatusArchived, StatusRejected:
		return true
	default:
		return false
	}
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Report is a geolocated civic report.
type Report struct {
	ID              uuid.UUID    `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	ReportType      ReportType   `json:"report_type"`
	Status          ReportStatus `json:"status"`
	Location        Coordinates  `json:"location"`
	CreationTime    time.Time    `json:"creation_time"`
	LastUpdatedTime *time.Time   `json:"last_updated_time,omitempty"`
}

// BoundingBox is a lat/lng rectangle used for map viewport queries.
type BoundingBox struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}
