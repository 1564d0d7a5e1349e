package sitegen

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
	"github.com/basjacobs93/nhk-web-easy/internal/wanikani"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/*
var assetFS embed.FS

// Defaults for the generated site chrome.
const (
	// DefaultSiteTitle is the site heading when none is configured.
	DefaultSiteTitle = "NHK News Web Easy Reader"

	// DefaultSiteDescription is the meta description when none is
	// configured.
	DefaultSiteDescription = "NHKのやさしいニュースを、学習状況に合わせたふりがな付きで読む"

	// LevelsFile is the name of the optional level-table script.
	LevelsFile = "wanikani-levels.js"

	// timestampLayout formats the footer generation timestamp.
	timestampLayout = "2006年01月02日 15:04"
)

// Generator renders enriched articles into a static site directory.
type Generator struct {
	outputDir   string
	title       string
	description string
	levels      *wanikani.Levels
	now         func() time.Time
	logger      *slog.Logger

	index   *template.Template
	article *template.Template
}

// Option configures a Generator.
type Option func(*Generator)

// WithSiteTitle overrides the site heading.
func WithSiteTitle(title string) Option {
	return func(g *Generator) {
		if title != "" {
			g.title = title
		}
	}
}

// WithSiteDescription overrides the site meta description.
func WithSiteDescription(description string) Option {
	return func(g *Generator) {
		if description != "" {
			g.description = description
		}
	}
}

// WithLevels attaches a proficiency level table. When set, the table is
// exported as wanikani-levels.js and loaded by every generated page.
func WithLevels(levels *wanikani.Levels) Option {
	return func(g *Generator) {
		g.levels = levels
	}
}

// WithClock overrides the clock used for the footer timestamp. Tests use
// this to get deterministic output.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithGeneratorLogger sets a custom logger for the generator.
func WithGeneratorLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a Generator writing into outputDir.
func NewGenerator(outputDir string, opts ...Option) (*Generator, error) {
	g := &Generator{
		outputDir:   outputDir,
		title:       DefaultSiteTitle,
		description: DefaultSiteDescription,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	var err error
	g.index, err = template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}
	g.article, err = template.ParseFS(templateFS, "templates/article.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse article template: %w", err)
	}

	return g, nil
}

// articleView is the template-facing projection of an article. HTML fields
// produced by the furigana renderer are typed template.HTML so the template
// engine injects them verbatim.
type articleView struct {
	Title              string
	TitleHTML          template.HTML
	Slug               string
	URL                string
	Date               string
	LocalImagePath     string
	ContentHTML        template.HTML
	ContentPreviewHTML template.HTML
	Stats              *model.Stats
}

// indexData is the template context for the index page.
type indexData struct {
	SiteTitle       string
	SiteDescription string
	Articles        []articleView
	GeneratedAt     string
	HasLevels       bool
}

// articleData is the template context for a single article page.
type articleData struct {
	SiteTitle string
	Article   articleView
	HasLevels bool
}

// view projects an article for the templates. A title that never went
// through enrichment still renders: the plain title is escaped by the
// template when TitleHTML is empty.
func view(a *model.Article) articleView {
	v := articleView{
		Title:              a.Title,
		TitleHTML:          template.HTML(a.TitleHTML), //nolint:gosec // Renderer output, text already escaped
		Slug:               a.Slug(),
		URL:                a.URL,
		Date:               a.Date,
		LocalImagePath:     a.LocalImagePath,
		ContentHTML:        template.HTML(a.ContentHTML),        //nolint:gosec // Renderer output, text already escaped
		ContentPreviewHTML: template.HTML(a.ContentPreviewHTML), //nolint:gosec // Renderer output, text already escaped
		Stats:              a.Stats,
	}
	if a.TitleHTML == "" {
		v.TitleHTML = template.HTML(template.HTMLEscapeString(a.Title)) //nolint:gosec // Escaped above
	}
	return v
}

// Generate renders the complete site: index, one page per article, the
// static assets, and the optional level table. An empty article list still
// produces a valid (empty) site.
func (g *Generator) Generate(articles []*model.Article) error {
	if err := os.MkdirAll(g.outputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	views := make([]articleView, 0, len(articles))
	for _, a := range articles {
		views = append(views, view(a))
	}

	if err := g.generateIndex(views); err != nil {
		return err
	}

	for i, v := range views {
		if err := g.generateArticle(v); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", articles[i].URL, err)
		}
	}

	if err := g.copyAssets(); err != nil {
		return err
	}

	if g.levels != nil {
		path := filepath.Join(g.outputDir, LevelsFile)
		if err := g.levels.ExportJS(path); err != nil {
			return fmt.Errorf("failed to export level table: %w", err)
		}
	}

	g.logger.Info("site generated",
		"output_dir", g.outputDir,
		"articles", len(articles),
	)
	return nil
}

func (g *Generator) generateIndex(views []articleView) error {
	data := indexData{
		SiteTitle:       g.title,
		SiteDescription: g.description,
		Articles:        views,
		GeneratedAt:     g.now().Format(timestampLayout),
		HasLevels:       g.levels != nil,
	}
	return g.render(g.index, "index.html", data)
}

func (g *Generator) generateArticle(v articleView) error {
	data := articleData{
		SiteTitle: g.title,
		Article:   v,
		HasLevels: g.levels != nil,
	}
	return g.render(g.article, v.Slug+".html", data)
}

func (g *Generator) render(tmpl *template.Template, name string, data any) error {
	path := filepath.Join(g.outputDir, name)
	f, err := os.Create(path) //nolint:gosec // Output path is derived from configured output dir
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close() //nolint:errcheck // Close error surfaced by the explicit Close below

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	g.logger.Debug("generated page", "path", path)
	return nil
}

// copyAssets writes the embedded stylesheet and script next to the pages.
func (g *Generator) copyAssets() error {
	entries, err := assetFS.ReadDir("assets")
	if err != nil {
		return fmt.Errorf("failed to read embedded assets: %w", err)
	}

	for _, entry := range entries {
		data, err := assetFS.ReadFile("assets/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read asset %s: %w", entry.Name(), err)
		}
		path := filepath.Join(g.outputDir, entry.Name())
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("failed to write asset %s: %w", entry.Name(), err)
		}
	}
	return nil
}
