package mcpserver

// MarkupContract describes the body markup and the highlight model for LLM
// consumers of the colorpad tools.
const MarkupContract = `# colorpad Markup Contract

The document body is plain text with colored highlight spans.

## Markup

` + "```" + `html
plain text <span data-color-id="2" class="highlighted">highlighted run</span> more text<br>next line
` + "```" + `

1. A highlight is exactly one ` + "`" + `<span data-color-id="N" class="highlighted">` + "`" + ` element.
   ` + "`" + `N` + "`" + ` is the id of a palette color.
2. Each span is one **citation**. Two adjacent spans of the same color are two citations.
3. Spans never nest. Highlighting over existing spans replaces them.
4. Line breaks are ` + "`" + `<br>` + "`" + `. Text is HTML-escaped (` + "`" + `&amp;` + "`" + `, ` + "`" + `&lt;` + "`" + `, ` + "`" + `&gt;` + "`" + `).
5. A single leading or trailing space inside a span is stored as ` + "`" + `&nbsp;` + "`" + `.

## Ranges

Tools that take ` + "`" + `start` + "`" + ` and ` + "`" + `end` + "`" + ` address the **plain text** returned by
` + "`" + `read_document` + "`" + ` (format ` + "`" + `text` + "`" + `), counted in Unicode code points, end exclusive.
A range that is empty or only whitespace is ignored.

## Palette

Colors are ordered most recently used first. Highlighting with a color moves it
to the front. A new color needs ` + "`" + `color_id` + "`" + `, ` + "`" + `name` + "`" + ` and ` + "`" + `value` + "`" + ` (CSS color).

## Citations

` + "`" + `copy_all_highlights` + "`" + ` returns an object keyed by color **name** in palette order;
colors without citations are omitted.
`
