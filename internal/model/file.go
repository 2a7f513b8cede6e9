package model

import "fmt"

// Attachment kinds accepted by the upload endpoint
var (
	FileKindResume      = "resume"
	FileKindCoverLetter = "cover_letter"
	FileKindPhoto       = "photo"
)

// File represents an uploaded attachment. Content holds the raw bytes when no
// cloud storage client is configured; otherwise StorageObjectName points at
// the remote object and Content stays empty.
type File struct {
	ID                int     `gorm:"primaryKey" json:"id"`
	Content           []byte  `json:"-"`
	Extension         string  `json:"extension"`
	Kind              string  `gorm:"type:text" json:"kind"`
	StorageObjectName *string `json:"-"`
}

// URL returns the stable reference stored on applications and profiles.
// Attachments are always served through the file endpoint so the reference
// survives a storage backend swap.
func (f *File) URL() string {
	return fmt.Sprintf("/api/v1/file/%d", f.ID)
}
