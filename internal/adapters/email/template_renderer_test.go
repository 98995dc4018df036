package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barhopregistration/internal/domain"
)

func TestTemplateRenderer_Render(t *testing.T) {
	r := NewTemplateRenderer()
	data := &domain.CancellationEmailData{
		Name:          "Anna",
		EventName:     "Berlin Bar Hop",
		VoucherCode:   "HOPBACK20",
		VoucherAmount: 20,
	}

	t.Run("english by default", func(t *testing.T) {
		subject, html, text, err := r.Render("cancellation_voucher", "en-US", data)
		require.NoError(t, err)
		assert.Contains(t, subject, "voucher enclosed")
		assert.Contains(t, html, "HOPBACK20")
		assert.Contains(t, text, "HOPBACK20")
	})

	t.Run("german locale selects german variant by prefix", func(t *testing.T) {
		subject, html, _, err := r.Render("cancellation_voucher", "de-DE", data)
		require.NoError(t, err)
		assert.Contains(t, subject, "Gutschein")
		assert.Contains(t, html, "Gutschein")
	})

	t.Run("unsupported locale falls back to english", func(t *testing.T) {
		subject, _, _, err := r.Render("cancellation", "fr-FR", data)
		require.NoError(t, err)
		assert.Contains(t, subject, "cancelled")
	})

	t.Run("missing german variant falls back to english", func(t *testing.T) {
		subject, _, _, err := r.Render("capacity_warning", "de", &domain.CapacityWarningEmailData{
			Name: "Admin", EventName: "Berlin Bar Hop",
		})
		require.NoError(t, err)
		assert.Contains(t, subject, "capacity warning")
	})

	t.Run("unknown template errors", func(t *testing.T) {
		_, _, _, err := r.Render("no_such_template", "en", data)
		require.Error(t, err)
	})
}

func TestResolveLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"en", "en"},
		{"en-US", "en"},
		{"de", "de"},
		{"de-DE", "de"},
		{"de_AT", "de"},
		{"DE", "de"},
		{"fr-FR", "en"},
		{"", "en"},
	}
	for _, tt := range tests {
		if got := resolveLocale(tt.locale); got != tt.want {
			t.Errorf("resolveLocale(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}
