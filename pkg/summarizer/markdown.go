package summarizer

import (
	"fmt"
	"strings"

	"github.com/ideamans/go-l10n"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator replaces the label translator. The default uses go-l10n.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) { f.translate = fn }
}

// WithVersion adds a generator version line to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) { f.version = version }
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: l10n.T}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Slideshow Summary"))

	fmt.Fprintf(&b, "## %s\n\n", t("Input"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %d |\n", t("Images"), s.Input.ImageCount)
	fmt.Fprintf(&b, "| %s | %s |\n\n", t("Total Size"), formatBytes(s.Input.TotalBytes))

	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Title"), escapeCell(s.Settings.Title))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Subtitle"), escapeCell(s.Settings.Subtitle))
	fmt.Fprintf(&b, "| %s | %g s |\n", t("Seconds per Image"), s.Settings.SecondsPerImage)
	fmt.Fprintf(&b, "| %s | %s |\n", t("Codec"), s.Settings.Codec)
	fmt.Fprintf(&b, "| %s | %s |\n", t("Pixel Format"), s.Settings.PixelFormat)
	if s.Settings.Normalized {
		fmt.Fprintf(&b, "| %s | %dx%d |\n", t("Canvas"), s.Settings.CanvasWidth, s.Settings.CanvasHeight)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Video"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	if s.Video.Path != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("File"), escapeCell(s.Video.Path))
	}
	fmt.Fprintf(&b, "| %s | %s |\n", t("File Size"), formatBytes(s.Video.FileSize))
	if s.Video.Codec != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Codec"), s.Video.Codec)
		fmt.Fprintf(&b, "| %s | %s |\n", t("Pixel Format"), orNA(s.Video.PixelFormat, t))
		fmt.Fprintf(&b, "| %s | %dx%d |\n", t("Resolution"), s.Video.Width, s.Video.Height)
		fmt.Fprintf(&b, "| %s | %s |\n", t("Duration"), formatDuration(s.Video.DurationMs))
		fmt.Fprintf(&b, "| %s | %d |\n", t("Frames"), s.Video.Frames)
	}
	if s.ComposeMs > 0 {
		fmt.Fprintf(&b, "| %s | %d ms |\n", t("Compose Time"), s.ComposeMs)
	}
	b.WriteString("\n---\n\n")

	fmt.Fprintf(&b, "%s: %s", t("Generated at"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if f.version != "" {
		fmt.Fprintf(&b, " · slideshow %s", f.version)
	}
	b.WriteString("\n")

	return b.String()
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit && exp < 2; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}

func formatDuration(ms int) string {
	return fmt.Sprintf("%.2f s", float64(ms)/1000)
}

func orNA(s string, t func(string) string) string {
	if s == "" {
		return t("N/A")
	}
	return s
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
