package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/resumariner/engine/engine/domain"
)

// dangerousFilenameChars mirrors the cross-platform-unsafe character set
// plus NUL; any of these in a submitted filename is rejected outright.
const dangerousFilenameChars = "<>:\"|?*\\/\x00"

// dangerousPathPatterns catches directory traversal attempts surviving
// into a filename (e.g. a multipart upload field smuggling a path).
var dangerousPathPatterns = []string{"../", "..\\"}

// scriptMarkers are substrings that should never appear in a resume
// document; their presence indicates embedded shell/script content rather
// than résumé text.
var scriptMarkers = []string{
	"<?php", "<script", "javascript:", "eval(", "cmd.exe", "powershell", "/bin/sh",
}

// SizeLimits bounds accepted file sizes per declared content type. Treated
// as configuration, not a hard-coded constant, since source material
// disagreed on the exact PDF ceiling.
type SizeLimits struct {
	PDFMaxBytes   int64
	ImageMaxBytes int64
}

// DefaultSizeLimits matches the spec's PDF <= 10 MiB, JPEG/PNG <= 5 MiB.
func DefaultSizeLimits() SizeLimits {
	return SizeLimits{
		PDFMaxBytes:   10 * 1024 * 1024,
		ImageMaxBytes: 5 * 1024 * 1024,
	}
}

// ValidateFilename rejects dangerous characters and path-traversal
// patterns in a submitted filename, ahead of any content inspection.
func ValidateFilename(name string) error {
	if strings.ContainsAny(name, dangerousFilenameChars) {
		return domain.NewValidationError("extract.ValidateFilename", name, fmt.Errorf("filename contains a disallowed character"))
	}
	for _, pattern := range dangerousPathPatterns {
		if strings.Contains(name, pattern) {
			return domain.NewValidationError("extract.ValidateFilename", name, fmt.Errorf("filename contains a path traversal pattern"))
		}
	}
	return nil
}

// ValidateContent rejects content carrying embedded script/shell markers
// or an excessive proportion of NUL bytes (a proxy for non-text/binary
// payloads masquerading as a supported document type).
func ValidateContent(content []byte) error {
	lower := bytes.ToLower(content)
	for _, marker := range scriptMarkers {
		if bytes.Contains(lower, []byte(marker)) {
			return domain.NewValidationError("extract.ValidateContent", "", fmt.Errorf("content contains a disallowed marker: %s", marker))
		}
	}

	if len(content) == 0 {
		return nil
	}
	nulCount := bytes.Count(content, []byte{0})
	if float64(nulCount)/float64(len(content)) > 0.5 {
		return domain.NewValidationError("extract.ValidateContent", "", fmt.Errorf("content is more than 50%% NUL bytes"))
	}
	return nil
}

// ValidateSize enforces the size limit for the detected signature.
func ValidateSize(sig Signature, size int64, limits SizeLimits) error {
	switch sig {
	case SignaturePDF:
		if size > limits.PDFMaxBytes {
			return domain.NewValidationError("extract.ValidateSize", "", fmt.Errorf("PDF exceeds size limit of %d bytes", limits.PDFMaxBytes))
		}
	case SignatureJPEG, SignaturePNG:
		if size > limits.ImageMaxBytes {
			return domain.NewValidationError("extract.ValidateSize", "", fmt.Errorf("image exceeds size limit of %d bytes", limits.ImageMaxBytes))
		}
	default:
		return domain.NewValidationError("extract.ValidateSize", "", fmt.Errorf("unsupported file signature"))
	}
	return nil
}
