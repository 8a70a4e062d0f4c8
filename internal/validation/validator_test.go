package validation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacticalapi/internal/apperr"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Level    int    `json:"accessLevel" validate:"omitempty,gte=1,lte=3"`
	Mode     string `json:"mode,omitempty" validate:"omitempty,oneof=fixed exponential"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(&signup{Username: "ash", Email: "ash@x.com"}))
}

func TestStruct_Messages(t *testing.T) {
	tests := []struct {
		name string
		in   signup
		want string
	}{
		{"required", signup{Email: "ash@x.com"}, "username is required"},
		{"short", signup{Username: "as", Email: "ash@x.com"}, "username must be at least 3 characters"},
		{"long", signup{Username: "abcdefghijklmnopqrstu", Email: "ash@x.com"}, "username must be at most 20 characters"},
		{"email", signup{Username: "ash", Email: "nope"}, "email must be a valid email address"},
		{"range", signup{Username: "ash", Email: "ash@x.com", Level: 4}, "accessLevel must be less than or equal to 3"},
		{"oneof", signup{Username: "ash", Email: "ash@x.com", Mode: "linear"}, "mode must be one of: fixed exponential"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(&tc.in)
			require.Error(t, err)
			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.KindValidation, e.Kind)
			assert.Equal(t, tc.want, e.Message)
		})
	}
}

func TestStruct_JoinsFields(t *testing.T) {
	err := Struct(&signup{})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "username is required; email is required", e.Message)
}

func TestGet_Singleton(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]any, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Get()
		}(i)
	}
	wg.Wait()
	for _, v := range got {
		assert.Same(t, Get(), v)
	}
}
