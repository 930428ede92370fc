package internal

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Attachment kinds.
const (
	AttachmentImage    = "image"
	AttachmentDocument = "document"
)

// PendingAttachment is an uploaded file waiting to be folded into the next
// model request. Its extracted text is injected at most once; after that the
// consumed flag blocks re-injection on follow-up turns.
type PendingAttachment struct {
	Kind string
	Name string
	Data []byte
	Lang string // OCR language hint, e.g. "eng"

	mu       sync.Mutex
	consumed bool
}

// NewAttachment classifies a file by extension and wraps it for extraction.
// Unrecognized extensions are treated as documents.
func NewAttachment(name string, data []byte, lang string) *PendingAttachment {
	kind := AttachmentDocument
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		kind = AttachmentImage
	}
	if lang == "" {
		lang = "eng"
	}
	return &PendingAttachment{Kind: kind, Name: name, Data: data, Lang: lang}
}

// TryConsume marks the attachment used. It returns true exactly once.
func (a *PendingAttachment) TryConsume() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.consumed {
		return false
	}
	a.consumed = true
	return true
}

// Consumed reports whether the attachment's text has already been injected.
func (a *PendingAttachment) Consumed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.consumed
}

// Extractor turns an attachment into plain text. Implementations never
// propagate failures: a source that cannot be decoded yields empty text so
// the conversation continues degraded.
type Extractor interface {
	Extract(ctx context.Context, att *PendingAttachment) string
}

// CommandExtractor shells out to the tesseract and pdftotext binaries.
// Binary names are overridable for tests.
type CommandExtractor struct {
	TesseractCmd string
	PDFToTextCmd string
}

// NewCommandExtractor returns an extractor using the standard binary names.
func NewCommandExtractor() *CommandExtractor {
	return &CommandExtractor{TesseractCmd: "tesseract", PDFToTextCmd: "pdftotext"}
}

// Extract runs OCR or PDF text extraction once per attachment. A consumed
// attachment yields empty text without re-extraction.
func (e *CommandExtractor) Extract(ctx context.Context, att *PendingAttachment) string {
	if att == nil || !att.TryConsume() {
		return ""
	}

	var cmd *exec.Cmd
	switch att.Kind {
	case AttachmentImage:
		cmd = exec.CommandContext(ctx, e.TesseractCmd, "stdin", "stdout", "-l", att.Lang)
	case AttachmentDocument:
		cmd = exec.CommandContext(ctx, e.PDFToTextCmd, "-", "-")
	default:
		LogWarn("Unknown attachment kind %q for %s", att.Kind, att.Name)
		return ""
	}

	cmd.Stdin = bytes.NewReader(att.Data)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		extErr := &ExtractionError{Kind: att.Kind, Err: err}
		LogWarn("Context extraction failed for %s: %v", att.Name, extErr)
		return ""
	}
	return strings.TrimSpace(out.String())
}
