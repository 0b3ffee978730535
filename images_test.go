package siteengine

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return &buf
}

func TestProcessImageKeepsSmallImages(t *testing.T) {
	m, data, err := processImage(encodePNG(t, 400, 300), "Photo One.png")
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if m.Width != 400 || m.Height != 300 {
		t.Fatalf("dimensions = %dx%d, want 400x300", m.Width, m.Height)
	}
	if m.Filename != "photo-one.jpg" {
		t.Fatalf("filename = %q, want slugged jpg", m.Filename)
	}
	if m.MimeType != "image/jpeg" {
		t.Fatalf("mime type = %q, want image/jpeg", m.MimeType)
	}
	if m.Size != len(data) {
		t.Fatalf("size = %d, want %d", m.Size, len(data))
	}
}

func TestProcessImageDownscalesWideImages(t *testing.T) {
	m, _, err := processImage(encodePNG(t, maxImageWidth*2, 1000), "wide.png")
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if m.Width != maxImageWidth {
		t.Fatalf("width = %d, want %d", m.Width, maxImageWidth)
	}
	if m.Height != 500 {
		t.Fatalf("height = %d, want aspect preserved at 500", m.Height)
	}
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	if _, _, err := processImage(bytes.NewBufferString("not an image"), "x.png"); err == nil {
		t.Fatal("expected decode error")
	}
}
