package model

import "github.com/google/uuid"

// Actor is the authenticated identity acting on a request, as supplied
// by the external identity provider. It is threaded explicitly through
// every service operation; there is no ambient session state.
type Actor struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Superuser bool      `json:"superuser"`
}
