package feedback

import (
	"context"
	"regexp"
	"strings"
)

// Polisher merapikan teks feedback sebelum disimpan untuk penerima.
// Implementasi lain (mis. layanan penulisan eksternal) cukup memenuhi
// interface ini dan di-inject lewat NewService.
type Polisher interface {
	Polish(ctx context.Context, body string) (string, error)
}

var (
	spaceRuns = regexp.MustCompile(`[ \t]+`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// PassthroughPolisher adalah default tanpa dependensi luar: trim dan
// normalisasi whitespace, isi kalimat tidak disentuh.
type PassthroughPolisher struct{}

func (PassthroughPolisher) Polish(_ context.Context, body string) (string, error) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	out := strings.Join(lines, "\n")
	out = blankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out), nil
}
