package form

import (
	"testing"

	"TalentForm-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pdfBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte("%PDF-1.4\n"))
	return data
}

func pngBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	return data
}

func TestDocumentPolicy_RejectsOversizedPDF(t *testing.T) {
	err := DocumentPolicy.Check(pdfBytes(6 << 20))

	var attErr *AttachmentError
	require.ErrorAs(t, err, &attErr)
	assert.Equal(t, "size", attErr.Reason)
	assert.Contains(t, attErr.Message, "5 MiB")
}

func TestDocumentPolicy_RejectsWrongType(t *testing.T) {
	err := DocumentPolicy.Check(make([]byte, 2<<10)) // 2 KiB of plain bytes

	var attErr *AttachmentError
	require.ErrorAs(t, err, &attErr)
	assert.Equal(t, "type", attErr.Reason)
}

func TestDocumentPolicy_AcceptsPDF(t *testing.T) {
	assert.NoError(t, DocumentPolicy.Check(pdfBytes(2<<20)))
}

func TestPhotoPolicy(t *testing.T) {
	assert.NoError(t, PhotoPolicy.Check(pngBytes(1<<20)))

	err := PhotoPolicy.Check(pdfBytes(1 << 20))
	var attErr *AttachmentError
	require.ErrorAs(t, err, &attErr)
	assert.Equal(t, "type", attErr.Reason)

	err = PhotoPolicy.Check(pngBytes(6 << 20))
	require.ErrorAs(t, err, &attErr)
	assert.Equal(t, "size", attErr.Reason)
}

func TestPolicyForKind(t *testing.T) {
	p, err := PolicyForKind(model.FileKindResume)
	assert.NoError(t, err)
	assert.Equal(t, DocumentPolicy.Name, p.Name)

	p, err = PolicyForKind(model.FileKindCoverLetter)
	assert.NoError(t, err)
	assert.Equal(t, DocumentPolicy.Name, p.Name)

	p, err = PolicyForKind(model.FileKindPhoto)
	assert.NoError(t, err)
	assert.Equal(t, PhotoPolicy.Name, p.Name)

	_, err = PolicyForKind("screenshot")
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".pdf", Extension(pdfBytes(1024)))
	assert.Equal(t, ".png", Extension(pngBytes(1024)))
}
