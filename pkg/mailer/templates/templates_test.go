package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRegistrationOTP(t *testing.T) {
	exp := time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)
	data := NewRegistrationOTPData("Ledger", "Ann <b>", "ann@x.com", "042137", WithExpiresAt(exp))

	subject, text, html, err := Render(RegistrationOTP, data)
	require.NoError(t, err)
	assert.Equal(t, "Ledger verification code: 042137", subject)
	assert.Contains(t, text, "042137")
	assert.Contains(t, text, "02 January 2025, 03:04 UTC")
	assert.Contains(t, html, "042137")
	assert.Contains(t, html, "Ann &lt;b&gt;")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "x", defaultFn("x", "  "))
	assert.Equal(t, "x", defaultFn("x", nil))
	assert.Equal(t, "x", defaultFn("x", 0))
	assert.Equal(t, 3, defaultFn("x", 3))
}
