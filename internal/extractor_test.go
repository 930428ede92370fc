package internal

import (
	"context"
	"testing"
)

func TestNewAttachment_Kinds(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{name: "png is image", file: "scan.png", want: AttachmentImage},
		{name: "jpeg is image", file: "photo.JPEG", want: AttachmentImage},
		{name: "pdf is document", file: "paper.pdf", want: AttachmentDocument},
		{name: "unknown is document", file: "notes.txt", want: AttachmentDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att := NewAttachment(tt.file, []byte("data"), "")
			if att.Kind != tt.want {
				t.Errorf("NewAttachment(%q).Kind = %q, want %q", tt.file, att.Kind, tt.want)
			}
			if att.Lang != "eng" {
				t.Errorf("NewAttachment() default Lang = %q, want eng", att.Lang)
			}
		})
	}
}

func TestPendingAttachment_TryConsume(t *testing.T) {
	att := NewAttachment("a.pdf", []byte("data"), "eng")

	if att.Consumed() {
		t.Error("new attachment should not be consumed")
	}
	if !att.TryConsume() {
		t.Error("first TryConsume() should succeed")
	}
	if att.TryConsume() {
		t.Error("second TryConsume() should fail")
	}
	if !att.Consumed() {
		t.Error("attachment should report consumed")
	}
}

func TestCommandExtractor_ExtractOnce(t *testing.T) {
	// cat stands in for the real binaries: it echoes the attachment bytes,
	// which is enough to observe the consume-once behavior.
	e := &CommandExtractor{TesseractCmd: "cat", PDFToTextCmd: "cat"}
	att := NewAttachment("doc.pdf", []byte("the document text\n"), "eng")

	if got := e.Extract(context.Background(), att); got != "the document text" {
		t.Errorf("Extract() = %q, want %q", got, "the document text")
	}
	if got := e.Extract(context.Background(), att); got != "" {
		t.Errorf("Extract() after consumption = %q, want empty", got)
	}
}

func TestCommandExtractor_ImageUsesLanguageHint(t *testing.T) {
	// echo ignores stdin and prints its args, exposing the tesseract
	// invocation.
	e := &CommandExtractor{TesseractCmd: "echo", PDFToTextCmd: "cat"}
	att := NewAttachment("scan.png", []byte("img"), "hin")

	got := e.Extract(context.Background(), att)
	if got != "stdin stdout -l hin" {
		t.Errorf("Extract() invoked %q, want %q", got, "stdin stdout -l hin")
	}
}

func TestCommandExtractor_MissingBinaryDegrades(t *testing.T) {
	e := &CommandExtractor{TesseractCmd: "definitely-not-a-binary", PDFToTextCmd: "definitely-not-a-binary"}
	att := NewAttachment("doc.pdf", []byte("data"), "eng")

	if got := e.Extract(context.Background(), att); got != "" {
		t.Errorf("Extract() with missing binary = %q, want empty", got)
	}
	if !att.Consumed() {
		t.Error("a failed extraction still consumes the attachment")
	}
}

func TestCommandExtractor_NilAttachment(t *testing.T) {
	e := NewCommandExtractor()
	if got := e.Extract(context.Background(), nil); got != "" {
		t.Errorf("Extract(nil) = %q, want empty", got)
	}
}
