package models

import (
	"time"
)

// Approval status values for a seller profile.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type UserProfile struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Email  string `gorm:"size:190;not null" json:"email"`

	DisplayName       string `gorm:"size:100" json:"display_name"`
	Username          string `gorm:"size:50;uniqueIndex:idx_profiles_username,where:username <> ''" json:"username"`
	Phone             string `gorm:"size:20" json:"phone"`
	Location          string `gorm:"size:255" json:"location"`
	Bio               string `gorm:"size:500" json:"bio"`
	ProfilePictureURL string `json:"profile_picture_url"`

	// Seller onboarding gate. Transitions only pending->approved or
	// pending->rejected, both admin-initiated.
	ApprovalStatus  string     `gorm:"size:20;default:'pending';index" json:"approval_status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ApprovedBy      *uint      `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
