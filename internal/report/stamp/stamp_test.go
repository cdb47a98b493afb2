package stamp

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
)

func sourceJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestJPEGStampsAndStaysDecodable(t *testing.T) {
	out, err := JPEG(sourceJPEG(t, 320, 240), []string{"Org / Site", "2026-08-01 10:00:00 UTC", "55.755814, 37.617635"})
	if err != nil {
		t.Fatalf("stamp: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("stamped output is not a jpeg: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Fatalf("stamping must not resize, got %v", img.Bounds())
	}
}

func TestJPEGTinyImage(t *testing.T) {
	// The strip is clamped so a caption taller than the image still works.
	if _, err := JPEG(sourceJPEG(t, 16, 16), []string{"a", "b", "c", "d"}); err != nil {
		t.Fatalf("stamp tiny image: %v", err)
	}
}

func TestJPEGRejectsGarbage(t *testing.T) {
	if _, err := JPEG([]byte("nope"), []string{"x"}); err == nil {
		t.Fatalf("expected an error for a non-jpeg input")
	}
}
