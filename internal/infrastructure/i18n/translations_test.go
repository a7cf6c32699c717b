package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslatorRendersTemplateData(t *testing.T) {
	tr := NewTranslator("en")

	msg := tr.T("en", "confirm.saved", map[string]any{"Title": "Meeting", "When": "Tue, 11 Mar 2025 15:00"})
	assert.Contains(t, msg, "Meeting")
	assert.Contains(t, msg, "15:00")
}

func TestTranslatorFallsBackToDefaultLocale(t *testing.T) {
	tr := NewTranslator("en")

	// Unknown locale falls back to English.
	assert.Equal(t, tr.T("en", "prompt.title", nil), tr.T("xx", "prompt.title", nil))
}

func TestTranslatorUnknownKeyReturnsKey(t *testing.T) {
	tr := NewTranslator("en")
	assert.Equal(t, "does.not.exist", tr.T("en", "does.not.exist", nil))
}

func TestTranslatorFrench(t *testing.T) {
	tr := NewTranslator("en")
	assert.NotEqual(t, tr.T("en", "prompt.attendees", nil), tr.T("fr", "prompt.attendees", nil))
}
