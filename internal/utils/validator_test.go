// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type passwordHolder struct {
	Password string `validate:"required,strong_password"`
}

func TestStrongPassword(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"Str0ngPass", true},
		{"An0therOne", true},
		{"short1A", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoNumbersHere", false},
		{"", false},
	}

	for _, tc := range cases {
		err := ValidateStruct(&passwordHolder{Password: tc.password})
		if tc.valid {
			assert.NoError(t, err, "password %q should be accepted", tc.password)
		} else {
			assert.Error(t, err, "password %q should be rejected", tc.password)
		}
	}
}

func TestGetValidationErrors(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required"`
	}

	err := ValidateStruct(&form{Email: "not-an-email"})
	errors := GetValidationErrors(err)

	assert.Len(t, errors, 2)
	fields := []string{errors[0].Field, errors[1].Field}
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "name")
}
