package screens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatorpay/gatorpay-go/internal/model"
)

func validRegisterForm(scr *Register) {
	scr.Email = "a@b.com"
	scr.Password = "longenough1"
	scr.Username = "alice"
	scr.Phone = "(555) 123-4567"
	scr.FirstName = "Alice"
	scr.LastName = "Gator"
}

func TestRegisterSubmitNormalizesPhone(t *testing.T) {
	backend := &fakeBackend{
		sent: model.OTPSentResponse{UserID: "u1", Email: "a***@b.com", Purpose: model.PurposeRegister},
	}
	scr := NewRegister(backend, testStore(t), &fakeNav{})
	defer scr.Close()

	validRegisterForm(scr)
	scr.Submit(context.Background())

	require.Empty(t, scr.Error.Get())
	assert.True(t, scr.OTPStep.Get())
	assert.Equal(t, "5551234567", backend.lastRegister.Phone)
	assert.Equal(t, "a@b.com", backend.lastRegister.Email)
}

func TestRegisterValidationSkipsNetwork(t *testing.T) {
	cases := []struct {
		name  string
		mutate func(*Register)
		field string
	}{
		{"bad email", func(s *Register) { s.Email = "nope" }, "email"},
		{"short password", func(s *Register) { s.Password = "short1" }, "password"},
		{"short username", func(s *Register) { s.Username = "ab" }, "username"},
		{"nine digit phone", func(s *Register) { s.Phone = "555-123-456" }, "phone"},
		{"eleven digit phone", func(s *Register) { s.Phone = "+1 555 123 4567" }, "phone"},
		{"empty first name", func(s *Register) { s.FirstName = "" }, "first_name"},
		{"empty last name", func(s *Register) { s.LastName = "" }, "last_name"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &fakeBackend{}
			scr := NewRegister(backend, testStore(t), &fakeNav{})
			defer scr.Close()

			validRegisterForm(scr)
			tc.mutate(scr)
			scr.Submit(context.Background())

			assert.Zero(t, backend.registerCalls, "invalid form must not reach the network")
			require.NotNil(t, scr.Validate())
			assert.Equal(t, tc.field, scr.Validate().Field)
			assert.NotEmpty(t, scr.Error.Get())
		})
	}
}

func TestRegisterFullFlow(t *testing.T) {
	backend := &fakeBackend{
		sent: model.OTPSentResponse{UserID: "u1", Email: "a***@b.com", Purpose: model.PurposeRegister},
		auth: testBundle(),
	}
	store := testStore(t)
	nav := &fakeNav{}
	scr := NewRegister(backend, store, nav)
	defer scr.Close()

	validRegisterForm(scr)
	scr.Submit(context.Background())
	require.True(t, scr.OTPStep.Get())

	scr.OTPCode = "123456"
	scr.VerifyCode(context.Background())

	assert.True(t, store.Authenticated())
	assert.Equal(t, []string{"dashboard"}, nav.routes)
}
