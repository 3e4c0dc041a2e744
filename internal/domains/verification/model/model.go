package model

import (
	"time"

	"bengkel/shared/model"
)

const (
	TableName  = "mechanic_verifications"
	EntityName = "mechanic verification"

	FieldID              = "id"
	FieldMechanicID      = "mechanic_id"
	FieldStatus          = "status"
	FieldRejectionReason = "rejection_reason"
	FieldReviewedBy      = "reviewed_by"
	FieldReviewedAt      = "reviewed_at"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Verification is the identity document set a mechanic submits before taking jobs.
type Verification struct {
	ID              string     `db:"id"`
	MechanicID      string     `db:"mechanic_id"`
	KTPNumber       string     `db:"ktp_number"`
	KTPImageURL     string     `db:"ktp_image_url"`
	SelfieImageURL  string     `db:"selfie_image_url"`
	Status          string     `db:"status"`
	RejectionReason *string    `db:"rejection_reason"`
	ReviewedBy      *string    `db:"reviewed_by"`
	ReviewedAt      *time.Time `db:"reviewed_at"`
	model.Metadata
}
