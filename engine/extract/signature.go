package extract

import "bytes"

// Signature identifies the detected file type from its leading bytes,
// never from the declared extension/MIME type.
type Signature int

const (
	SignatureUnknown Signature = iota
	SignaturePDF
	SignatureJPEG
	SignaturePNG
)

var (
	pdfMagic  = []byte("%PDF-")
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

// DetectSignature inspects the leading bytes of content and returns the
// matching Signature, or SignatureUnknown if none match.
func DetectSignature(content []byte) Signature {
	switch {
	case bytes.HasPrefix(content, pdfMagic):
		return SignaturePDF
	case bytes.HasPrefix(content, jpegMagic):
		return SignatureJPEG
	case bytes.HasPrefix(content, pngMagic):
		return SignaturePNG
	default:
		return SignatureUnknown
	}
}

// String returns the file type name, also used as ParsedDocument.FileType.
func (s Signature) String() string {
	switch s {
	case SignaturePDF:
		return "pdf"
	case SignatureJPEG:
		return "jpeg"
	case SignaturePNG:
		return "png"
	default:
		return "unknown"
	}
}

// MatchesExtension reports whether a declared file extension (with or
// without the leading dot, case-insensitive) is consistent with the
// detected signature. Mismatches are rejected per the extractor contract.
func (s Signature) MatchesExtension(ext string) bool {
	for len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	switch s {
	case SignaturePDF:
		return equalFoldASCII(ext, "pdf")
	case SignatureJPEG:
		return equalFoldASCII(ext, "jpg") || equalFoldASCII(ext, "jpeg")
	case SignaturePNG:
		return equalFoldASCII(ext, "png")
	default:
		return false
	}
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
