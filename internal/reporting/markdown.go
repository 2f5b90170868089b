package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
	"github.com/gradebook-analyzer/gradebook/internal/grading"
)

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteMarkdown writes r as a Markdown document.
func WriteMarkdown(w io.Writer, r *Report) error {
	_, err := io.WriteString(w, RenderMarkdown(r))
	return err
}

// RenderMarkdown renders r as Markdown with GitHub-style tables.
func RenderMarkdown(r *Report) string {
	var b strings.Builder

	b.WriteString("# Gradebook Analysis\n\n")
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("**Source:** `%s`\n\n", r.Source))
	}

	if len(r.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, msg := range r.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", escapeMarkdown(msg)))
		}
		b.WriteString("\n")
	}

	if r.Empty() {
		b.WriteString(fmt.Sprintf("> %s\n", EmptyMessage))
		return b.String()
	}

	s := r.Summary
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Students | %d |\n", s.Count))
	b.WriteString(fmt.Sprintf("| Average | %s |\n", r.fixed(s.Average)))
	b.WriteString(fmt.Sprintf("| Median | %s |\n", r.fixed(s.Median)))
	b.WriteString(fmt.Sprintf("| Max | %s (%s) |\n", gradebook.FormatScore(s.Max.Score), escapeMarkdown(strings.Join(s.Max.Names, ", "))))
	b.WriteString(fmt.Sprintf("| Min | %s (%s) |\n", gradebook.FormatScore(s.Min.Score), escapeMarkdown(strings.Join(s.Min.Names, ", "))))
	b.WriteString(fmt.Sprintf("| Std dev | %s |\n", r.fixed(s.Spread.StdDev)))
	if r.MeanCI != nil {
		b.WriteString(fmt.Sprintf("| %.0f%% CI (mean) | %s – %s |\n",
			r.MeanCI.ConfidenceLevel*100, r.fixed(r.MeanCI.Lower), r.fixed(r.MeanCI.Upper)))
	}
	b.WriteString("\n")

	b.WriteString("## Grades\n\n")
	b.WriteString("| Student | Score | Grade | Result |\n")
	b.WriteString("|---------|-------|-------|--------|\n")
	for _, st := range r.Students {
		result := "✅ pass"
		if !st.Passed {
			result = "❌ fail"
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeMarkdown(st.Name), gradebook.FormatScore(st.Score), st.Grade, result))
	}
	b.WriteString("\n")

	b.WriteString("## Distribution\n\n")
	b.WriteString("| Grade | Count |\n")
	b.WriteString("|-------|-------|\n")
	for _, l := range grading.Letters {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", l, r.Distribution[l]))
	}
	b.WriteString("\n")

	threshold := gradebook.FormatScore(r.PassThreshold)
	b.WriteString(fmt.Sprintf("## Pass/Fail (threshold %s)\n\n", threshold))
	b.WriteString(fmt.Sprintf("- **Passed (%d):** %s\n", len(r.Passed), joinOrDash(r.Passed)))
	b.WriteString(fmt.Sprintf("- **Failed (%d):** %s\n", len(r.Failed), joinOrDash(r.Failed)))

	if r.ShowEntries {
		b.WriteString("\n## Scores by Name\n\n")
		for _, e := range r.ByName {
			b.WriteString(fmt.Sprintf("- %s: %s\n", escapeMarkdown(e.Name), gradebook.FormatScore(e.Score)))
		}
		b.WriteString("\n## Entries\n\n")
		for i, e := range r.Entries {
			b.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, escapeMarkdown(e.Name), gradebook.FormatScore(e.Score)))
		}
	}

	return b.String()
}

// WriteHTML converts the Markdown report to a standalone HTML page.
func WriteHTML(w io.Writer, r *Report) error {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(RenderMarkdown(r)), &body); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}

	title := "Gradebook Analysis"
	if r.Source != "" {
		title += " – " + r.Source
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(title)))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "<", "&lt;", ">", "&gt;", "*", `\*`, "_", `\_`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	escaped := make([]string, len(names))
	for i, n := range names {
		escaped[i] = escapeMarkdown(n)
	}
	return strings.Join(escaped, ", ")
}
