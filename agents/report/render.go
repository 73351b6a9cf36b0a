package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"milwatch/internal/models"
)

// EmptyPlaceholder is the body used when a period has no events.
const EmptyPlaceholder = "_No events recorded in this period._"

// TitleFor builds the post title for a period label.
func TitleFor(label string) string {
	return fmt.Sprintf("Military flight report %s", label)
}

const postTemplate = `---
title: "{{.Title}}"
date: {{.Date}}
tags: [{{range $i, $t := .Tags}}{{if $i}},{{end}}"{{$t}}"{{end}}]
---

{{if .Rows}}| {{join .Columns " | "}} |
| {{range $i, $c := .Columns}}{{if $i}} | {{end}}---{{end}} |
{{range .Rows}}| {{join .Row " | "}} |
{{end}}{{else}}{{.Placeholder}}
{{end}}`

var postTmpl = template.Must(template.New("post").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(postTemplate))

// RenderPost produces the complete post: front matter (title, local
// publish timestamp, tags) followed by an event table, or the
// empty-period placeholder when there are no rows.
func RenderPost(title string, published time.Time, tags []string, rows []models.EventRecord) (string, error) {
	data := struct {
		Title       string
		Date        string
		Tags        []string
		Columns     []string
		Rows        []models.EventRecord
		Placeholder string
	}{
		Title:       title,
		Date:        published.Format(time.RFC3339),
		Tags:        tags,
		Columns:     models.EventColumns,
		Rows:        rows,
		Placeholder: EmptyPlaceholder,
	}

	var buf bytes.Buffer
	if err := postTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render post: %w", err)
	}
	return buf.String(), nil
}
