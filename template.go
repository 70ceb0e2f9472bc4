package mdmanual

import (
	"fmt"
	"os"
	"regexp"

	"github.com/aymerick/raymond"

	"github.com/alnah/go-mdmanual/internal/assets"
)

// contentSlot matches {{content}} or {{{content}}}.
var contentSlot = regexp.MustCompile(`\{\{\{?\s*content\s*\}?\}\}`)

// pageTemplate renders one site page from its title, sidebar and body.
type pageTemplate struct {
	tpl   *raymond.Template
	style string
}

// pageData is the template context of one page.
type pageData struct {
	Title   string
	Sidebar string
	Content string
}

// loadPageTemplate reads the page template from templatePath, or from the
// asset loader when templatePath is empty, and parses it.
func loadPageTemplate(loader assets.AssetLoader, templatePath string) (*pageTemplate, error) {
	var source string
	if templatePath != "" {
		data, err := os.ReadFile(templatePath) // #nosec G304 -- template path is user-provided
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
		}
		source = string(data)
	} else {
		s, err := loader.LoadTemplate(assets.PageTemplateName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
		}
		source = s
	}

	style, err := loader.LoadStyle(assets.SiteStyleName)
	if err != nil {
		return nil, fmt.Errorf("loading site style: %w", err)
	}

	return parsePageTemplate(source, style)
}

// parsePageTemplate parses a Handlebars page template. A template that never
// places the page content is rejected.
func parsePageTemplate(source, style string) (*pageTemplate, error) {
	if !contentSlot.MatchString(source) {
		return nil, fmt.Errorf("%w: no {{{content}}} slot", ErrTemplate)
	}
	tpl, err := raymond.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return &pageTemplate{tpl: tpl, style: style}, nil
}

// render executes the template. Sidebar, content and style are trusted HTML
// and are not escaped, even in double-stash slots.
func (t *pageTemplate) render(data pageData) (string, error) {
	out, err := t.tpl.Exec(map[string]interface{}{
		"title":   data.Title,
		"sidebar": raymond.SafeString(data.Sidebar),
		"content": raymond.SafeString(data.Content),
		"style":   raymond.SafeString(t.style),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return out, nil
}
