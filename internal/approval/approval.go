// Package approval tracks seller onboarding status and gates listing
// creation. The state machine is pending -> approved or pending -> rejected,
// both admin-initiated; there is no transition out of a decided state.
package approval

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"crankslist/models"
)

var (
	// ErrAlreadyDecided is returned when approving or rejecting a profile
	// that has already left the pending state.
	ErrAlreadyDecided = errors.New("profile already decided")

	// ErrNotFound is returned when the profile does not exist.
	ErrNotFound = errors.New("profile not found")
)

const defaultRejectionReason = "No reason provided"

type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// StatusFor returns the approval status for a user, creating a pending
// profile on first access. Read failures report pending so that the listing
// gate fails closed.
func (s *Store) StatusFor(userID uint, email string) string {
	profile, err := s.ProfileFor(userID, email)
	if err != nil {
		log.Printf("Error loading approval status for user %d: %v", userID, err)
		return models.ApprovalPending
	}
	return profile.ApprovalStatus
}

// ProfileFor fetches the profile for a user, lazily creating a pending one
// when none exists yet.
func (s *Store) ProfileFor(userID uint, email string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = models.UserProfile{
		UserID:         userID,
		Email:          email,
		ApprovalStatus: models.ApprovalPending,
	}
	if err := s.DB.Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Approve moves a pending profile to approved, recording the deciding admin
// and the decision time. Approving an already-approved profile is a no-op;
// approving a rejected one is an error.
func (s *Store) Approve(profileID, adminUserID uint) error {
	var profile models.UserProfile
	if err := s.DB.First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	switch profile.ApprovalStatus {
	case models.ApprovalApproved:
		return nil
	case models.ApprovalRejected:
		return ErrAlreadyDecided
	}

	now := time.Now()
	return s.DB.Model(&profile).Updates(map[string]interface{}{
		"approval_status": models.ApprovalApproved,
		"approved_by":     adminUserID,
		"approved_at":     now,
	}).Error
}

// Reject moves a pending profile to rejected, storing the operator-supplied
// reason. An empty reason is stored as a placeholder.
func (s *Store) Reject(profileID uint, reason string) error {
	var profile models.UserProfile
	if err := s.DB.First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	switch profile.ApprovalStatus {
	case models.ApprovalRejected:
		return nil
	case models.ApprovalApproved:
		return ErrAlreadyDecided
	}

	if reason == "" {
		reason = defaultRejectionReason
	}
	return s.DB.Model(&profile).Updates(map[string]interface{}{
		"approval_status":  models.ApprovalRejected,
		"rejection_reason": reason,
	}).Error
}
