package model

import "time"

// ServiceUser is a care recipient whose record is managed by the agency.
// SyncRef is the numeric reference offline clients use to identify the
// service user in sync payloads.
type ServiceUser struct {
	Base
	SyncRef     int64      `db:"sync_ref" json:"sync_ref"`
	FullName    string     `db:"full_name" json:"full_name"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Address     string     `db:"address" json:"address"`
	KeyNotes    string     `db:"key_notes" json:"key_notes"`
}

type CreateServiceUserRequest struct {
	FullName    string     `json:"full_name" binding:"required"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     string     `json:"address"`
	KeyNotes    string     `json:"key_notes"`
}

type UpdateServiceUserRequest struct {
	FullName    *string    `json:"full_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     *string    `json:"address"`
	KeyNotes    *string    `json:"key_notes"`
}

// ServiceUserDetail is the detail view: the record plus its most
// recent communication notes.
type ServiceUserDetail struct {
	ServiceUser *ServiceUser         `json:"service_user"`
	Notes       []*CommunicationNote `json:"notes"`
}
