package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateContact(t *testing.T) {
	tests := []struct {
		contact string
		ok      bool
	}{
		{"9159622785", true},
		{"  9159622785  ", true},
		{"91596227850123", true},
		{"915962278", false},
		{"+919159622785", false},
		{"staff@school.edu", true},
		{"first.last+tag@mail.school.in", true},
		{"a@b.c", false},
		{"a@b.museum", false},
		{"abc", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.contact, func(t *testing.T) {
			err := ValidateContact(tt.contact)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := validateSearchUser(searchUserInput{Contact: "abc", RoleID: 0})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 2)
	assert.Equal(t,
		"validation failed: mobileNo: enter a valid email or mobile number; roleId: select a role",
		err.Error())
}
