package model

import (
	"time"

	"github.com/google/uuid"
)

// CommunicationNote records a visit or contact with a service user.
// Notes are immutable once created; created_at is server-assigned.
// A non-empty client_uid is unique across all notes and is used to
// deduplicate offline submissions replayed through the sync endpoint.
type CommunicationNote struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ServiceUserID uuid.UUID `db:"service_user_id" json:"service_user_id"`
	CreatedBy     uuid.UUID `db:"created_by" json:"created_by"`
	AuthorEmail   string    `db:"author_email" json:"author_email"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	VisitType     string    `db:"visit_type" json:"visit_type"`
	NoteText      string    `db:"note_text" json:"note_text"`
	ConcernFlag   bool      `db:"concern_flag" json:"concern_flag"`
	ClientUID     string    `db:"client_uid" json:"client_uid"`
}

type CreateNoteRequest struct {
	VisitType   string `json:"visit_type"`
	NoteText    string `json:"note_text" binding:"required"`
	ConcernFlag bool   `json:"concern_flag"`
	ClientUID   string `json:"client_uid"`
}

// SyncNoteItem is one note queued by an offline client. The target
// service user is identified by its numeric sync reference, and the
// loosely typed fields tolerate whatever the client's local store
// serialized; coercion happens per item so one bad entry cannot sink
// its siblings.
type SyncNoteItem struct {
	ClientUID     string      `json:"client_uid"`
	ServiceUserID interface{} `json:"service_user_id"`
	VisitType     string      `json:"visit_type"`
	NoteText      string      `json:"note_text"`
	ConcernFlag   interface{} `json:"concern_flag"`
}

type SyncNotesRequest struct {
	Notes []SyncNoteItem `json:"notes"`
}

// SyncStatus tags the outcome of one sync item.
type SyncStatus string

const (
	SyncSaved     SyncStatus = "saved"
	SyncDuplicate SyncStatus = "duplicate"
	SyncFailed    SyncStatus = "failed"
)

// SyncOutcome is the per-item result of a sync batch. Failures carry
// the item index and a reason so the client can identify which queued
// entry needs resubmission or discarding.
type SyncOutcome struct {
	Index  int        `json:"index"`
	Status SyncStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// SyncNotesResponse is the legacy flat shape the offline client expects.
type SyncNotesResponse struct {
	Saved  int      `json:"saved"`
	Errors []string `json:"errors"`
}
