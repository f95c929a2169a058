// Package export renders the copy-all citation set for use outside the
// editor.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/starford/colorpad/internal/annotation"
	"github.com/starford/colorpad/internal/apperr"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatMarkdown, FormatHTML}

// ParseFormat maps a name to a Format. An empty name means JSON.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatMarkdown, FormatHTML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("export: %q: %w", name, apperr.ErrInvalidFormat)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/json"
	}
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Render writes set to w in format f.
func Render(w io.Writer, set annotation.CitationSet, f Format) error {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			return fmt.Errorf("export: json: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(set))
		return err
	case FormatHTML:
		if err := md.Convert([]byte(Markdown(set)), w); err != nil {
			return fmt.Errorf("export: html: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("export: %q: %w", f, apperr.ErrInvalidFormat)
	}
}

// String renders set to a string.
func String(set annotation.CitationSet, f Format) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, set, f); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Markdown renders one section per color with one bullet per citation.
func Markdown(set annotation.CitationSet) string {
	var sb strings.Builder
	for i, c := range set {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## %s\n\n", escape(c.Name))
		for _, cite := range c.Citations {
			fmt.Fprintf(&sb, "- %s\n", escape(cite))
		}
	}
	return sb.String()
}

var mdEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"`", "\\`",
	"*", "\\*",
	"_", "\\_",
	"[", "\\[",
	"]", "\\]",
	"<", "\\<",
	">", "\\>",
	"#", "\\#",
	"|", "\\|",
	"~", "\\~",
	"\u00a0", " ",
	"\n", " ",
)

func escape(s string) string {
	return mdEscaper.Replace(strings.TrimSpace(s))
}

var clipboardWrite = clipboard.WriteAll

// ToClipboard copies text to the system clipboard.
func ToClipboard(text string) error {
	if err := clipboardWrite(text); err != nil {
		return fmt.Errorf("export: clipboard: %w", err)
	}
	return nil
}
