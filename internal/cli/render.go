package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mvp-joe/project-outline/internal/engine"
	"github.com/mvp-joe/project-outline/internal/structure"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	nameStyle     = lipgloss.NewStyle().Bold(true)
	linesStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
)

// renderResult writes a human-readable view of one result.
func renderResult(w io.Writer, r *engine.FileResult) {
	header := r.Path
	if r.Icon != "" {
		header = r.Icon + " " + header
	}
	fmt.Fprintln(w, titleStyle.Render(header))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%s · level %d %s (%s)", r.Descriptor, r.Level, r.LevelName, r.Breadcrumb)))

	if r.Error != "" {
		fmt.Fprintln(w, warnStyle.Render("⚠ "+r.Error))
	}

	switch {
	case r.Content != nil:
		renderPage(w, r.Content)
	case r.Raw == nil && len(r.Elements) == 0:
		fmt.Fprintf(w, "size: %s bytes\n", formatNumber(int(r.Metadata.Size)))
		fmt.Fprintf(w, "lines: %s\n", formatNumber(r.Metadata.Lines))
		fmt.Fprintf(w, "modified: %s\n", r.Metadata.Modified.Format("2006-01-02 15:04:05"))
	default:
		renderElements(w, r.Elements, "", r.Previews)
	}

	if len(r.NextLevels) > 0 {
		levels := make([]string, len(r.NextLevels))
		for i, l := range r.NextLevels {
			levels[i] = fmt.Sprintf("%d", l)
		}
		fmt.Fprintln(w, dimStyle.Render("next levels: "+strings.Join(levels, ", ")))
	}
	for _, tip := range r.Tips {
		fmt.Fprintln(w, dimStyle.Render("tip: "+tip))
	}
}

// renderElements draws elements as a tree with box-drawing connectors.
func renderElements(w io.Writer, elements []*structure.Element, prefix string, previews map[string]string) {
	for i, el := range elements {
		last := i == len(elements)-1
		connector, childPrefix := "├─ ", "│  "
		if last {
			connector, childPrefix = "└─ ", "   "
		}

		line := fmt.Sprintf("%s%s%s %s  %s",
			prefix, connector,
			categoryStyle.Render(string(el.Category)),
			nameStyle.Render(el.Name),
			linesStyle.Render(formatLines(el.StartLine, el.EndLine)))
		fmt.Fprintln(w, line)

		for _, d := range el.Decorators {
			fmt.Fprintln(w, prefix+childPrefix+dimStyle.Render(d))
		}
		if preview, ok := previews[el.Path]; ok && preview != "" {
			for _, p := range strings.Split(preview, "\n") {
				fmt.Fprintln(w, prefix+childPrefix+dimStyle.Render("│ "+p))
			}
		}

		renderElements(w, el.Children, prefix+childPrefix, previews)
	}
}

// renderPage prints content lines with their numbers.
func renderPage(w io.Writer, p *engine.Page) {
	if p.Text != "" {
		width := len(fmt.Sprintf("%d", p.TotalLines))
		for i, line := range strings.Split(p.Text, "\n") {
			num := fmt.Sprintf("%*d", width, p.Offset+i)
			fmt.Fprintf(w, "%s  %s\n", linesStyle.Render(num), line)
		}
	}
	if p.HasMore {
		next := p.Offset + p.Limit
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("… %d of %d lines shown, continue with --offset %d", p.Limit, p.TotalLines, next)))
	}
}

func formatLines(start, end int) string {
	if end <= start {
		return fmt.Sprintf("L%d", start)
	}
	return fmt.Sprintf("L%d-%d", start, end)
}

// formatNumber formats an integer with thousand separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
