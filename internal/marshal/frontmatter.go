// Package marshal splits and renders markdown documents with YAML
// frontmatter.
package marshal

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Document is a markdown file split into frontmatter and body. BodyOffset
// is the byte offset of Body within the original content, so positions
// computed on the body can be mapped back to the file.
type Document struct {
	Frontmatter map[string]any
	Body        string
	BodyOffset  int
}

// Parse splits a markdown document into frontmatter and body.
func Parse(content []byte) (*Document, error) {
	str := string(content)

	if !strings.HasPrefix(str, frontmatterDelimiter+"\n") {
		return &Document{
			Frontmatter: make(map[string]any),
			Body:        str,
		}, nil
	}

	rest := str[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return nil, fmt.Errorf("unclosed frontmatter")
	}

	fmYAML := rest[:idx]
	bodyStart := len(frontmatterDelimiter) + idx + len("\n"+frontmatterDelimiter)
	// The closing delimiter line ends at the next newline.
	if nl := strings.IndexByte(str[bodyStart:], '\n'); nl != -1 {
		bodyStart += nl + 1
	} else {
		bodyStart = len(str)
	}

	var frontmatter map[string]any
	if err := yaml.Unmarshal([]byte(fmYAML), &frontmatter); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if frontmatter == nil {
		frontmatter = make(map[string]any)
	}

	return &Document{
		Frontmatter: frontmatter,
		Body:        str[bodyStart:],
		BodyOffset:  bodyStart,
	}, nil
}

// Render combines frontmatter and body into a markdown document.
func Render(doc *Document) ([]byte, error) {
	if len(doc.Frontmatter) == 0 {
		return []byte(doc.Body), nil
	}
	return RenderFrontmatter(doc.Frontmatter, doc.Body)
}

// RenderFrontmatter marshals any yaml-serializable value as a frontmatter
// block followed by body. Struct values keep their field order.
func RenderFrontmatter(frontmatter any, body string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(frontmatterDelimiter)
	buf.WriteString("\n")

	fmBytes, err := yaml.Marshal(frontmatter)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
	}
	buf.Write(fmBytes)

	buf.WriteString(frontmatterDelimiter)
	buf.WriteString("\n")
	buf.WriteString(body)

	return buf.Bytes(), nil
}

// Title returns the frontmatter title field when it is a string.
func (d *Document) Title() string {
	if t, ok := d.Frontmatter["title"].(string); ok {
		return t
	}
	return ""
}
