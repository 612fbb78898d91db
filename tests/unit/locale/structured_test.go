package locale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbill/internal/locale"
)

func TestDetectStructuredInvoice(t *testing.T) {
	t.Run("factur-x attachment", func(t *testing.T) {
		raw := []byte("%PDF-1.7 /EmbeddedFiles (factur-x.xml) stream")
		got := locale.DetectStructuredInvoice(raw)
		require.NotNil(t, got)
		assert.Equal(t, "Factur-X", got.Standard)
		assert.Equal(t, "factur-x.xml", got.AttachmentName)
	})

	t.Run("zugferd attachment case insensitive", func(t *testing.T) {
		raw := []byte("%PDF-1.4 (ZUGFeRD-invoice.xml)")
		got := locale.DetectStructuredInvoice(raw)
		require.NotNil(t, got)
		assert.Equal(t, "ZUGFeRD", got.Standard)
	})

	t.Run("fatturapa xml root", func(t *testing.T) {
		raw := []byte(`<?xml version="1.0"?><p:FatturaElettronica versione="FPR12">`)
		got := locale.DetectStructuredInvoice(raw)
		require.NotNil(t, got)
		assert.Equal(t, "FatturaPA", got.Standard)
	})

	t.Run("cross industry invoice root", func(t *testing.T) {
		raw := []byte(`<rsm:CrossIndustryInvoice xmlns:rsm="urn:un:unece:uncefact">`)
		got := locale.DetectStructuredInvoice(raw)
		require.NotNil(t, got)
		assert.Equal(t, "Factur-X", got.Standard)
	})

	t.Run("plain scanned pdf", func(t *testing.T) {
		raw := []byte("%PDF-1.4 ordinary image-only document")
		assert.Nil(t, locale.DetectStructuredInvoice(raw))
	})
}
