package imaging_test

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"os"
	"testing"

	"atelier/internal/imaging"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))
	os.Exit(m.Run())
}

func b64(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// header builds a buffer starting with prefix, padded with filler bytes up
// to total length.
func header(prefix []byte, total int) []byte {
	buf := make([]byte, total)
	copy(buf, prefix)
	for i := len(prefix); i < total; i++ {
		buf[i] = byte(i * 7)
	}
	return buf
}

func webpHeader() []byte {
	buf := header([]byte("RIFF"), 24)
	copy(buf[8:], "WEBP")
	return buf
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  imaging.Format
	}{
		{"png signature", b64(header([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, 24)), imaging.FormatPNG},
		{"jpeg signature", b64(header([]byte{0xff, 0xd8, 0xff}, 24)), imaging.FormatJPEG},
		{"webp signature", b64(webpHeader()), imaging.FormatWebP},
		{"riff without webp tag", b64(header([]byte("RIFF"), 24)), imaging.FormatPNG},
		{"no known signature", b64(header([]byte("GIF89a"), 24)), imaging.FormatPNG},
		{"large payload decodes prefix only", b64(header([]byte{0xff, 0xd8, 0xff}, 1<<16)), imaging.FormatJPEG},
		{"short input defaults to png", b64([]byte("abc")), imaging.FormatPNG},
		{"short jpeg still detected", b64([]byte{0xff, 0xd8, 0xff, 0x00}), imaging.FormatJPEG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := imaging.DetectFormat(tt.input)
			if err != nil {
				t.Fatalf("DetectFormat: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectFormat_MalformedBase64(t *testing.T) {
	_, err := imaging.DetectFormat("!!!not base64 at all!!!")
	if !errors.Is(err, imaging.ErrDecode) {
		t.Fatalf("want ErrDecode, got %v", err)
	}
}

func TestDetectFormat_Idempotent(t *testing.T) {
	input := b64(webpHeader())
	first, err := imaging.DetectFormat(input)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := imaging.DetectFormat(input)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first != second {
		t.Errorf("classification changed between runs: %q then %q", first, second)
	}
}

func TestDataURL(t *testing.T) {
	got := imaging.DataURL(imaging.FormatJPEG, "AAAA")
	want := "data:image/jpeg;base64,AAAA"
	if got != want {
		t.Errorf("DataURL = %q, want %q", got, want)
	}
}
