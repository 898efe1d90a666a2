package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"

	"github.com/campaignkit/courier/pkg/sanitizer"
)

// Renderer turns markdown templates with YAML frontmatter into HTML
// email bodies. Templates and layouts are parsed once and cached; the
// cache stores parsed structure, never rendered output.
type Renderer struct {
	fs fs.FS
	md goldmark.Markdown

	templateDir string
	layoutDir   string
	sanitize    bool

	mu        sync.RWMutex
	templates map[string]*parsedTemplate
	layouts   map[string]*template.Template
}

type parsedTemplate struct {
	metadata map[string]any
	tmpl     *texttemplate.Template
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	TemplateDir string // Default: "."
	LayoutDir   string // Default: "layouts"

	// SanitizeContent passes the converted body HTML through the email
	// sanitizer before layout injection. Enable when template data
	// interpolates untrusted input.
	SanitizeContent bool
}

// NewRenderer creates a renderer with default config.
func NewRenderer(filesystem fs.FS) *Renderer {
	return NewRendererWithConfig(filesystem, RendererConfig{})
}

// NewRendererWithConfig creates a renderer with custom config.
func NewRendererWithConfig(filesystem fs.FS, cfg RendererConfig) *Renderer {
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "."
	}
	if cfg.LayoutDir == "" {
		cfg.LayoutDir = "layouts"
	}

	return &Renderer{
		fs:          filesystem,
		md:          goldmark.New(),
		templateDir: cfg.TemplateDir,
		layoutDir:   cfg.LayoutDir,
		sanitize:    cfg.SanitizeContent,
		templates:   make(map[string]*parsedTemplate),
		layouts:     make(map[string]*template.Template),
	}
}

// RenderResult holds the rendered HTML document, the plain text
// alternative, and the template's frontmatter metadata.
type RenderResult struct {
	Metadata map[string]any
	HTML     string
	Text     string
}

// Render executes the named template with data, converts the markdown
// body to HTML, and wraps it in the named layout. The plain text
// alternative is the processed markdown before HTML conversion.
func (r *Renderer) Render(layout, templateName string, data any) (*RenderResult, error) {
	parsed, err := r.template(templateName)
	if err != nil {
		return nil, err
	}

	var markdown bytes.Buffer
	if err := parsed.tmpl.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: failed to execute template: %v", ErrRenderFailed, err)
	}
	plainText := markdown.String()

	var body bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &body); err != nil {
		return nil, fmt.Errorf("%w: failed to convert markdown: %v", ErrRenderFailed, err)
	}

	content := body.String()
	if r.sanitize {
		content = sanitizer.SanitizeEmailHTML(content)
	}

	layoutTmpl, err := r.layout(layout)
	if err != nil {
		return nil, err
	}

	var doc bytes.Buffer
	err = layoutTmpl.Execute(&doc, map[string]any{
		"Content":  template.HTML(content), //nolint:gosec // markdown output, sanitized when configured
		"Metadata": parsed.metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute layout: %v", ErrRenderFailed, err)
	}

	return &RenderResult{
		Metadata: parsed.metadata,
		HTML:     doc.String(),
		Text:     plainText,
	}, nil
}

func (r *Renderer) template(name string) (*parsedTemplate, error) {
	r.mu.RLock()
	cached, ok := r.templates[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.templates[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.templateDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	tmpl, err := texttemplate.New(name).Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse template body: %v", ErrRenderFailed, err)
	}

	cached = &parsedTemplate{metadata: parsed.Metadata, tmpl: tmpl}
	r.templates[name] = cached
	return cached, nil
}

func (r *Renderer) layout(name string) (*template.Template, error) {
	r.mu.RLock()
	cached, ok := r.layouts[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.layouts[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse layout: %v", ErrRenderFailed, err)
	}

	r.layouts[name] = tmpl
	return tmpl, nil
}
