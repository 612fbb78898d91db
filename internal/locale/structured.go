package locale

import (
	"bytes"
	"strings"
)

// StructuredInvoice describes machine-readable invoice data embedded in the
// source document (Factur-X/ZUGFeRD attachments, FatturaPA XML).
type StructuredInvoice struct {
	Standard       string `json:"standard"`
	AttachmentName string `json:"attachment_name,omitempty"`
}

type structuredMarker struct {
	marker   string
	standard string
}

// attachmentMarkers are embedded-file name fragments that identify a hybrid
// structured invoice. Checked in order.
var attachmentMarkers = []structuredMarker{
	{"factur-x", "Factur-X"},
	{"zugferd", "ZUGFeRD"},
	{"fattura", "FatturaPA"},
}

// xmlMarkers identify structured invoice payloads by their root element.
var xmlMarkers = []structuredMarker{
	{"CrossIndustryInvoice", "Factur-X"},
	{"FatturaElettronica", "FatturaPA"},
}

// DetectStructuredInvoice scans raw document bytes for embedded structured
// invoice data. Attachment names in the PDF embedded-files tree appear as
// literal strings, so a byte scan finds them without full PDF traversal.
func DetectStructuredInvoice(raw []byte) *StructuredInvoice {
	lower := bytes.ToLower(raw)
	for _, m := range attachmentMarkers {
		if idx := bytes.Index(lower, []byte(m.marker)); idx >= 0 {
			return &StructuredInvoice{
				Standard:       m.standard,
				AttachmentName: extractAttachmentName(raw, idx, len(m.marker)),
			}
		}
	}
	for _, m := range xmlMarkers {
		if bytes.Contains(raw, []byte(m.marker)) {
			return &StructuredInvoice{Standard: m.standard}
		}
	}
	return nil
}

func extractAttachmentName(raw []byte, idx, markerLen int) string {
	start := idx
	for start > 0 && isNameByte(raw[start-1]) {
		start--
	}
	end := idx + markerLen
	for end < len(raw) && isNameByte(raw[end]) {
		end++
	}
	return strings.TrimSpace(string(raw[start:end]))
}

func isNameByte(b byte) bool {
	return b == '.' || b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
