// Package domain holds the pickup schedule requests residents file ahead of
// a collection.
package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "Pending"
	RequestStatusApproved  RequestStatus = "Approved"
	RequestStatusCompleted RequestStatus = "Completed"
	RequestStatusCancelled RequestStatus = "Cancelled"
)

var (
	ErrMissingRequestID = errors.New("request id is required")
	ErrMissingResident  = errors.New("resident id is required")
	ErrMissingName      = errors.New("customer name is required")
	ErrMissingCategory  = errors.New("waste category is required")
	ErrMissingLocation  = errors.New("pickup location is required")
	ErrInvalidEmail     = errors.New("a valid email address is required")
	ErrInvalidStatus    = errors.New("status must be Pending, Approved, Completed or Cancelled")
	ErrNotFound         = errors.New("schedule request not found")
)

// ScheduleRequest is a resident's pickup request.
type ScheduleRequest struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"-"`
	RequestID      string        `gorm:"type:text;not null;uniqueIndex" json:"requestId"`
	ResidentID     string        `gorm:"type:text;not null;index" json:"residentId"`
	CustomerName   string        `gorm:"type:text;not null" json:"customerName"`
	Category       string        `gorm:"type:text;not null" json:"category"`
	ScheduleDate   time.Time     `gorm:"not null" json:"scheduleDate"`
	Location       string        `gorm:"type:text;not null" json:"location"`
	Email          string        `gorm:"type:text;not null" json:"email"`
	AdditionalNote string        `gorm:"type:text" json:"additionalNote,omitempty"`
	Status         RequestStatus `gorm:"type:text;not null;default:Pending" json:"status"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (ScheduleRequest) TableName() string { return "schedule_requests" }

func (r *ScheduleRequest) Validate() error {
	if r.RequestID == "" {
		return ErrMissingRequestID
	}
	if strings.TrimSpace(r.ResidentID) == "" {
		return ErrMissingResident
	}
	if strings.TrimSpace(r.CustomerName) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrMissingCategory
	}
	if strings.TrimSpace(r.Location) == "" {
		return ErrMissingLocation
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return ErrInvalidEmail
	}
	if !ValidStatus(r.Status) {
		return ErrInvalidStatus
	}
	return nil
}

func ValidStatus(s RequestStatus) bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusCompleted, RequestStatusCancelled:
		return true
	default:
		return false
	}
}
