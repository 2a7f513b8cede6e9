package form

import (
	"fmt"
	"strings"

	"TalentForm-backend/internal/model"

	"github.com/gabriel-vasile/mimetype"
)

// MaxAttachmentBytes is the shared size cap for every attachment class.
const MaxAttachmentBytes = 5 << 20 // 5 MiB

// AttachmentError is a rejection the client can show inline. Reason separates
// the two failure classes so the message can say which one it was.
type AttachmentError struct {
	Reason  string // "type" or "size"
	Message string
}

func (e *AttachmentError) Error() string {
	return e.Message
}

// AttachmentPolicy is the shared contract of one attachment class.
type AttachmentPolicy struct {
	Name         string
	AllowedMIMEs []string
	MaxBytes     int64
}

var (
	// DocumentPolicy covers resumes and cover letters uploaded as files.
	DocumentPolicy = AttachmentPolicy{
		Name: "document",
		AllowedMIMEs: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		MaxBytes: MaxAttachmentBytes,
	}

	// PhotoPolicy covers the profile photo.
	PhotoPolicy = AttachmentPolicy{
		Name: "photo",
		AllowedMIMEs: []string{
			"image/jpeg",
			"image/png",
			"image/webp",
		},
		MaxBytes: MaxAttachmentBytes,
	}
)

// PolicyForKind maps an upload kind to its policy.
func PolicyForKind(kind string) (AttachmentPolicy, error) {
	switch kind {
	case model.FileKindResume, model.FileKindCoverLetter:
		return DocumentPolicy, nil
	case model.FileKindPhoto:
		return PhotoPolicy, nil
	default:
		return AttachmentPolicy{}, fmt.Errorf("unknown attachment kind %q", kind)
	}
}

// Check validates raw file bytes against the policy before any upload happens.
// The content type is sniffed from the bytes, so a renamed extension cannot
// smuggle a wrong type through.
func (p AttachmentPolicy) Check(data []byte) error {
	if int64(len(data)) > p.MaxBytes {
		return &AttachmentError{
			Reason: "size",
			Message: fmt.Sprintf("File exceeds the %d MiB limit for %s uploads",
				p.MaxBytes>>20, p.Name),
		}
	}

	detected := mimetype.Detect(data)
	for _, allowed := range p.AllowedMIMEs {
		if detected.Is(allowed) {
			return nil
		}
	}
	return &AttachmentError{
		Reason: "type",
		Message: fmt.Sprintf("File type %s is not allowed for %s uploads (allowed: %s)",
			detected.String(), p.Name, strings.Join(p.AllowedMIMEs, ", ")),
	}
}

// Extension returns the canonical extension for the sniffed content type,
// used as the stored file's extension.
func Extension(data []byte) string {
	return mimetype.Detect(data).Extension()
}
