package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentCategory is the closed set of compliance document categories.
type DocumentCategory string

const (
	CategoryCarePlan       DocumentCategory = "CARE_PLAN"
	CategoryRiskAssessment DocumentCategory = "RISK_ASSESSMENT"
	CategoryConsent        DocumentCategory = "CONSENT"
	CategoryMedication     DocumentCategory = "MEDICATION"
	CategoryIncident       DocumentCategory = "INCIDENT"
	CategoryOther          DocumentCategory = "OTHER"
)

func (c DocumentCategory) Valid() bool {
	switch c {
	case CategoryCarePlan, CategoryRiskAssessment, CategoryConsent,
		CategoryMedication, CategoryIncident, CategoryOther:
		return true
	}
	return false
}

// Document is an uploaded compliance file attached to a service user.
// Immutable once created; uploaded_at is server-assigned.
type Document struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	ServiceUserID uuid.UUID        `db:"service_user_id" json:"service_user_id"`
	Category      DocumentCategory `db:"category" json:"category"`
	FilePath      string           `db:"file_path" json:"file_path"`
	Description   string           `db:"description" json:"description"`
	UploadedBy    uuid.UUID        `db:"uploaded_by" json:"uploaded_by"`
	UploadedAt    time.Time        `db:"uploaded_at" json:"uploaded_at"`
}
