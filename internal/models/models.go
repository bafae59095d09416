// Package models defines the data structures used across the application.
// These map to the PostgreSQL schema in internal/database/schema.sql.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Report status values. A report moves Pending -> Acknowledged/En Route ->
// Resolved/Canceled; Resolved and Canceled are terminal.
const (
	StatusPending      = "Pending"
	StatusAcknowledged = "Acknowledged"
	StatusEnRoute      = "En Route"
	StatusResolved     = "Resolved"
	StatusCanceled     = "Canceled"
)

// ValidStatus reports whether s is one of the fixed report statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAcknowledged, StatusEnRoute, StatusResolved, StatusCanceled:
		return true
	}
	return false
}

// TerminalStatus reports whether s is a terminal report status.
func TerminalStatus(s string) bool {
	return s == StatusResolved || s == StatusCanceled
}

// Sender types for messages and media uploads.
const (
	SenderCitizen = "citizen"
	SenderPolice  = "police"
)

// Admin is a platform administrator account.
type Admin struct {
	ID        uuid.UUID `json:"admin_id" db:"admin_id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	ContactNo *string   `json:"contact_no,omitempty" db:"contact_no"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Citizen is a registered citizen who can file incident reports.
type Citizen struct {
	ID                     uuid.UUID `json:"user_id" db:"user_id"`
	Email                  string    `json:"email" db:"email"`
	Phone                  *string   `json:"phone,omitempty" db:"phone"`
	PasswordHash           string    `json:"-" db:"password_hash"`
	FirstName              string    `json:"first_name" db:"first_name"`
	LastName               string    `json:"last_name" db:"last_name"`
	Birthdate              time.Time `json:"birthdate" db:"birthdate"`
	Sex                    *string   `json:"sex,omitempty" db:"sex"`
	EmergencyContactName   *string   `json:"emergency_contact_name,omitempty" db:"emergency_contact_name"`
	EmergencyContactNumber *string   `json:"emergency_contact_number,omitempty" db:"emergency_contact_number"`
	Region                 *string   `json:"region,omitempty" db:"region"`
	City                   *string   `json:"city,omitempty" db:"city"`
	Barangay               *string   `json:"barangay,omitempty" db:"barangay"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
}

// PoliceOffice is a police station that responds to assigned reports.
// PasswordHash is never serialized.
type PoliceOffice struct {
	ID            uuid.UUID  `json:"office_id" db:"office_id"`
	OfficeName    string     `json:"office_name" db:"office_name"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	HeadOfficer   *string    `json:"head_officer,omitempty" db:"head_officer"`
	ContactNumber *string    `json:"contact_number,omitempty" db:"contact_number"`
	Latitude      float64    `json:"latitude" db:"latitude"`
	Longitude     float64    `json:"longitude" db:"longitude"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// OfficeCreate is the request body for registering a police office.
type OfficeCreate struct {
	OfficeName    string  `json:"office_name"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	HeadOfficer   *string `json:"head_officer,omitempty"`
	ContactNumber *string `json:"contact_number,omitempty"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	CreatedBy     string  `json:"created_by"`
}

// Report is a citizen-submitted incident record.
type Report struct {
	ID               uuid.UUID  `json:"report_id" db:"report_id"`
	ReporterID       *uuid.UUID `json:"reporter_id,omitempty" db:"reporter_id"`
	AssignedOfficeID *uuid.UUID `json:"assigned_office_id,omitempty" db:"assigned_office_id"`
	Category         string     `json:"category" db:"category"`
	Description      *string    `json:"description,omitempty" db:"description"`
	Status           string     `json:"status" db:"status"`
	Latitude         float64    `json:"latitude" db:"latitude"`
	Longitude        float64    `json:"longitude" db:"longitude"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	Remarks          *string    `json:"remarks,omitempty" db:"remarks"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	LocationCity     *string    `json:"location_city,omitempty" db:"location_city"`
	LocationBarangay *string    `json:"location_barangay,omitempty" db:"location_barangay"`
}

// ReportCreate is the request body for filing a new report.
type ReportCreate struct {
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Reporter    *string `json:"reporter,omitempty"`
}

// ReportUpdate is the request body for the restricted update path.
// Only status and remarks are mutable after creation.
type ReportUpdate struct {
	Status  *string `json:"status,omitempty"`
	Remarks *string `json:"remarks,omitempty"`
}

// ReportView is a report enriched for list/detail responses with
// human-readable office, reporter and address strings.
type ReportView struct {
	Report
	AssignedOfficeName string `json:"assigned_office_name"`
	ReporterFullName   string `json:"reporter_full_name"`
	IncidentAddress    string `json:"incident_address"`
}

// ResolvedCase is a row in the resolved-cases listing and PDF export.
type ResolvedCase struct {
	ReportID          uuid.UUID  `json:"report_id"`
	Category          string     `json:"category"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
	LocationCity      *string    `json:"location_city"`
	LocationBarangay  *string    `json:"location_barangay"`
	Remarks           *string    `json:"remarks"`
	ResolutionTimeStr string     `json:"resolution_time_str"`
}

// RouteInfo is the response for the report routing sub-operation.
type RouteInfo struct {
	DirectionsURL string `json:"directions_url"`
	QRCodeBase64  string `json:"qr_code_base64"`
}

// Message is one entry in a report's citizen/police conversation thread.
type Message struct {
	ID         uuid.UUID `json:"message_id" db:"message_id"`
	ReportID   uuid.UUID `json:"report_id" db:"report_id"`
	SenderID   uuid.UUID `json:"sender_id" db:"sender_id"`
	SenderType string    `json:"sender_type" db:"sender_type"`
	ReceiverID uuid.UUID `json:"receiver_id" db:"receiver_id"`
	Content    string    `json:"message_content" db:"message_content"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
}

// MessageCreate is the request body for posting a message to a thread.
type MessageCreate struct {
	SenderID   string `json:"sender_id"`
	SenderType string `json:"sender_type"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"message_content"`
}

// MessageUpdate is the request body for editing a posted message. Only
// the content is mutable; sender and receiver are fixed at creation.
type MessageUpdate struct {
	Content string `json:"message_content"`
}

// Checkpoint is a police patrol/inspection point with an optional
// active time-of-day window ("HH:MM", may wrap past midnight).
type Checkpoint struct {
	ID               uuid.UUID `json:"checkpoint_id" db:"checkpoint_id"`
	OfficeID         uuid.UUID `json:"office_id" db:"office_id"`
	CheckpointName   string    `json:"checkpoint_name" db:"checkpoint_name"`
	ContactNumber    *string   `json:"contact_number,omitempty" db:"contact_number"`
	TimeStart        *string   `json:"time_start,omitempty" db:"time_start"`
	TimeEnd          *string   `json:"time_end,omitempty" db:"time_end"`
	Latitude         float64   `json:"latitude" db:"latitude"`
	Longitude        float64   `json:"longitude" db:"longitude"`
	AssignedOfficers *string   `json:"assigned_officers,omitempty" db:"assigned_officers"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	OfficeName       string    `json:"office_name,omitempty" db:"-"`
}

// CheckpointCreate is the request body for registering a checkpoint.
type CheckpointCreate struct {
	OfficeID         string  `json:"office_id"`
	CheckpointName   string  `json:"checkpoint_name"`
	ContactNumber    *string `json:"contact_number,omitempty"`
	TimeStart        *string `json:"time_start,omitempty"`
	TimeEnd          *string `json:"time_end,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	AssignedOfficers *string `json:"assigned_officers,omitempty"`
}

// Media is an evidence file attached to a report. The file itself lives
// in object storage; only the public URL is persisted.
type Media struct {
	ID         uuid.UUID `json:"media_id" db:"media_id"`
	ReportID   uuid.UUID `json:"report_id" db:"report_id"`
	FileURL    string    `json:"file_url" db:"file_url"`
	FileType   string    `json:"file_type" db:"file_type"`
	SenderID   uuid.UUID `json:"sender_id" db:"sender_id"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// SummaryAnalytics is a denormalized resolved-report count keyed by
// (city, barangay, category). Fully derived from Report; safe to rebuild.
type SummaryAnalytics struct {
	ID          uuid.UUID `json:"summary_id" db:"summary_id"`
	City        string    `json:"location_city" db:"location_city"`
	Barangay    string    `json:"location_barangay" db:"location_barangay"`
	Category    string    `json:"category" db:"category"`
	ReportCount int       `json:"report_count" db:"report_count"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// LocationCount is one "top locations" aggregation row.
type LocationCount struct {
	City          *string `json:"location_city"`
	Barangay      *string `json:"location_barangay"`
	ReportCount   int     `json:"report_count"`
	ReportPercent float64 `json:"report_percent"`
}

// TopLocationCount is one row of the top-locations summary, grouped by
// (city, barangay, category).
type TopLocationCount struct {
	City        string  `json:"location_city"`
	Barangay    *string `json:"location_barangay"`
	Category    string  `json:"category"`
	ReportCount int     `json:"report_count"`
}

// CategoryCount is one "category concentration" aggregation row.
type CategoryCount struct {
	Category      string  `json:"category"`
	ReportCount   int     `json:"report_count"`
	ReportPercent float64 `json:"percentage"`
}

// Overview is the analytics dashboard summary card.
type Overview struct {
	TotalAssigned         int    `json:"total_assigned"`
	AverageResolutionTime string `json:"average_resolution_time"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the authenticated role, a safe user projection
// and a signed token.
type LoginResponse struct {
	Message string         `json:"message"`
	Role    string         `json:"role"`
	User    map[string]any `json:"user"`
	Token   string         `json:"token"`
}

// HealthStatus is the health check response.
type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime,omitempty"`
	Database string `json:"database,omitempty"`
	Redis    string `json:"redis,omitempty"`
}
