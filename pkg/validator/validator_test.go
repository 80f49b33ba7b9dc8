package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type profileInput struct {
	UserID string `binding:"required,uuid"`
	Email  string `binding:"required,email"`
}

func TestStructChecksBindingTags(t *testing.T) {
	assert.NoError(t, Struct(profileInput{
		UserID: "8b9f0b5e-7a89-4a66-b6a4-2b1f8f9a3c21",
		Email:  "carer@example.com",
	}))

	assert.Error(t, Struct(profileInput{
		UserID: "not-a-uuid",
		Email:  "carer@example.com",
	}))

	assert.Error(t, Struct(profileInput{
		UserID: "8b9f0b5e-7a89-4a66-b6a4-2b1f8f9a3c21",
		Email:  "not-an-email",
	}))

	assert.Error(t, Struct(profileInput{}))
}
