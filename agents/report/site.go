package report

import (
	"context"
	"fmt"
	"os/exec"
)

// SiteRenderer rebuilds the static site after a post is written. Its
// failure is fatal to the report run: a post that never renders was
// never published.
type SiteRenderer interface {
	Render(ctx context.Context) error
}

// HugoRenderer regenerates the blog with the hugo binary.
type HugoRenderer struct {
	blogPath string
}

func NewHugoRenderer(blogPath string) *HugoRenderer {
	return &HugoRenderer{blogPath: blogPath}
}

func (h *HugoRenderer) Render(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "hugo", "-s", h.blogPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("hugo build failed: %w (output: %s)", err, out)
	}
	return nil
}
