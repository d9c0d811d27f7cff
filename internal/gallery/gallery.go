// Package gallery renders a static, searchable HTML index of every clip in
// the output directory.
package gallery

import (
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reelcut/internal/catalog"
	"reelcut/internal/config"
	"reelcut/internal/fileutil"
	"reelcut/internal/logging"
	"reelcut/internal/timeutil"
)

//go:embed gallery.html.tmpl
var pageTemplate string

// Generator builds the gallery page from the metadata sidecars written next
// to each source's clips.
type Generator struct {
	title  string
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Generator {
	return &Generator{
		title:  cfg.Gallery.Title,
		logger: logging.NewComponentLogger(logger, "gallery"),
	}
}

// Page is the template root.
type Page struct {
	Title  string
	Groups []Group
}

// Group is one source directory with its clips.
type Group struct {
	Dir   string
	Name  string
	Clips []PageClip
}

// PageClip is one clip card on the page.
type PageClip struct {
	Path       string
	Name       string
	Duration   string
	Transcript string
	Thumbs     []string
}

// Build scans outputDir for per-source sidecars and writes gallery.html.
// Directories without a metadata.json are skipped, so foreign folders in the
// output tree are harmless.
func (g *Generator) Build(outputDir string) (string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", fmt.Errorf("gallery: %w", err)
	}

	page := Page{Title: g.title}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sidecarPath := filepath.Join(outputDir, entry.Name(), "metadata.json")
		if _, err := os.Stat(sidecarPath); err != nil {
			continue
		}
		doc, err := catalog.LoadSidecar(sidecarPath)
		if err != nil {
			return "", fmt.Errorf("gallery: %w", err)
		}
		page.Groups = append(page.Groups, buildGroup(entry.Name(), doc))
		g.logger.Debug("source indexed",
			logging.String(logging.FieldSource, entry.Name()),
			logging.Int("clips", len(doc.Clips)),
		)
	}

	if len(page.Groups) == 0 {
		return "", fmt.Errorf("gallery: no processed sources under %s", outputDir)
	}

	tmpl, err := template.New("gallery").Parse(pageTemplate)
	if err != nil {
		return "", fmt.Errorf("gallery: parse template: %w", err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("gallery: render: %w", err)
	}

	outPath := filepath.Join(outputDir, "gallery.html")
	if err := fileutil.WriteFileAtomic(outPath, []byte(buf.String()), 0o644); err != nil {
		return "", err
	}

	total := 0
	for _, group := range page.Groups {
		total += len(group.Clips)
	}
	g.logger.Info("gallery written",
		logging.String("path", outPath),
		logging.Int("sources", len(page.Groups)),
		logging.Int("clips", total),
	)
	return outPath, nil
}

func buildGroup(dir string, doc catalog.Sidecar) Group {
	group := Group{Dir: dir, Name: DisplayName(dir)}
	for _, clip := range doc.Clips {
		group.Clips = append(group.Clips, PageClip{
			Path:       dir + "/" + clip.File,
			Name:       clip.File,
			Duration:   timeutil.FormatDuration(clip.EndSeconds - clip.StartSeconds),
			Transcript: clip.Transcript,
			Thumbs:     thumbPaths(dir, clip.Thumbs),
		})
	}
	return group
}

func thumbPaths(dir string, thumbs []string) []string {
	paths := make([]string, 0, len(thumbs))
	for _, t := range thumbs {
		paths = append(paths, dir+"/"+t)
	}
	return paths
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// DisplayName turns a source directory name into a heading. Separators
// become spaces and each word is title-cased, but existing capitalization is
// preserved so acronyms like VHS survive.
func DisplayName(dir string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(dir)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return dir
	}
	return titleCaser.String(cleaned)
}
