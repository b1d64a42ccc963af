package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignInOptions_RequestedScopes(t *testing.T) {
	tests := []struct {
		name      string
		scopes    []string
		wantFirst string
		wantRest  []string
	}{
		{"empty", nil, "", nil},
		{"single scope yields no extras", []string{"a"}, "a", []string{}},
		{"two scopes", []string{"a", "b"}, "a", []string{"b"}},
		{"three scopes", []string{"a", "b", "c"}, "a", []string{"b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := SignInOptions{Scopes: tt.scopes}

			first, rest := opts.RequestedScopes()

			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestSignInOptions_Validate(t *testing.T) {
	assert.ErrorIs(t, SignInOptions{}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, SignInOptions{ClientID: "id", CallbackPort: -1}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, SignInOptions{ClientID: "id", CallbackPort: 70000}.Validate(), ErrInvalidInput)
	assert.NoError(t, SignInOptions{ClientID: "id"}.Validate())
	assert.NoError(t, SignInOptions{ClientID: "id", CallbackPort: 8085}.Validate())
}

func TestSignInOptions_Timeout(t *testing.T) {
	assert.Equal(t, DefaultSignInTimeout, SignInOptions{}.Timeout())
	assert.Equal(t, 30*time.Second, SignInOptions{SignInTimeout: 30 * time.Second}.Timeout())
}
