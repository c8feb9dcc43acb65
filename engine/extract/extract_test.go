package extract

import (
	"strings"
	"testing"
)

func TestDetectSignature(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want Signature
	}{
		{"pdf", []byte("%PDF-1.4 rest"), SignaturePDF},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, SignatureJPEG},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, SignaturePNG},
		{"unknown", []byte("plain text"), SignatureUnknown},
		{"empty", nil, SignatureUnknown},
	}
	for _, c := range cases {
		got := DetectSignature(c.in)
		if got != c.want {
			t.Errorf("%s: DetectSignature() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestMatchesExtension(t *testing.T) {
	if !SignaturePDF.MatchesExtension(".PDF") {
		t.Error("expected .PDF to match PDF signature")
	}
	if !SignatureJPEG.MatchesExtension("jpg") {
		t.Error("expected jpg to match JPEG signature")
	}
	if SignaturePNG.MatchesExtension("jpg") {
		t.Error("expected jpg to not match PNG signature")
	}
}

func TestValidateFilename(t *testing.T) {
	if err := ValidateFilename("resume.pdf"); err != nil {
		t.Errorf("expected clean filename to pass, got %v", err)
	}
	bad := []string{"../../etc/passwd.pdf", "resume|rm.pdf", "resume\x00.pdf", "a:b.pdf"}
	for _, name := range bad {
		if err := ValidateFilename(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

func TestValidateContentScriptMarkers(t *testing.T) {
	if err := ValidateContent([]byte("plain resume text")); err != nil {
		t.Errorf("expected clean content to pass, got %v", err)
	}
	if err := ValidateContent([]byte("hello <script>alert(1)</script>")); err == nil {
		t.Error("expected content with script marker to be rejected")
	}
}

func TestValidateContentNULRatio(t *testing.T) {
	content := []byte(strings.Repeat("\x00", 60) + strings.Repeat("a", 40))
	if err := ValidateContent(content); err == nil {
		t.Error("expected content with >50% NUL bytes to be rejected")
	}
	content = []byte(strings.Repeat("\x00", 10) + strings.Repeat("a", 90))
	if err := ValidateContent(content); err != nil {
		t.Errorf("expected content with <50%% NUL bytes to pass, got %v", err)
	}
}

func TestValidateSize(t *testing.T) {
	limits := DefaultSizeLimits()
	if err := ValidateSize(SignaturePDF, limits.PDFMaxBytes+1, limits); err == nil {
		t.Error("expected oversized PDF to be rejected")
	}
	if err := ValidateSize(SignaturePDF, limits.PDFMaxBytes, limits); err != nil {
		t.Errorf("expected PDF at the limit to pass, got %v", err)
	}
	if err := ValidateSize(SignatureJPEG, limits.ImageMaxBytes+1, limits); err == nil {
		t.Error("expected oversized JPEG to be rejected")
	}
	if err := ValidateSize(SignatureUnknown, 1, limits); err == nil {
		t.Error("expected unknown signature to be rejected")
	}
}

func TestParseRejectsUnknownSignature(t *testing.T) {
	ex := New(nil)
	_, err := ex.Parse("resume.pdf", []byte("not a pdf"))
	if err == nil {
		t.Error("expected parse of non-PDF content to fail")
	}
}

func TestParseRejectsExtensionMismatch(t *testing.T) {
	ex := New(nil)
	_, err := ex.Parse("resume.png", []byte("%PDF-1.4 minimal"))
	if err == nil {
		t.Error("expected extension/signature mismatch to be rejected")
	}
}

func TestParseImageWithoutOCRFails(t *testing.T) {
	ex := New(nil)
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte(strings.Repeat("a", 20))...)
	_, err := ex.Parse("photo.jpg", jpeg)
	if err == nil {
		t.Error("expected image parse without OCR collaborator to fail")
	}
}
