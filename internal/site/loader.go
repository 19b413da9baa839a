package site

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v2"

	"github.com/kissit/website/internal/config"
	"github.com/kissit/website/internal/model"
)

const (
	GlobalFile     = "global.yaml"
	ProjectsFile   = "projects.yaml"
	EntrypointFile = "entrypoint.md"
)

// Loader reads the content directory into a model.Site.
type Loader struct {
	Config config.Config
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewLoader(cfg config.Config) *Loader {
	return &Loader{Config: cfg, Now: time.Now}
}

// Load builds a new immutable Site. The landing page year is the current
// year plus one; it is computed here, once, and never per request.
func (l *Loader) Load() (*model.Site, error) {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	loadedAt := now()

	global, err := loadGlobal(filepath.Join(l.Config.ContentDir, GlobalFile))
	if err != nil {
		return nil, err
	}
	projects, err := loadProjects(filepath.Join(l.Config.ContentDir, ProjectsFile))
	if err != nil {
		return nil, err
	}
	companies, err := listCompanies(l.Config.StaticDir, l.Config.CompaniesDir)
	if err != nil {
		return nil, err
	}
	entrypoint, err := loadEntrypoint(filepath.Join(l.Config.ContentDir, EntrypointFile))
	if err != nil {
		return nil, err
	}

	collisions := Collisions(projects)
	hashes := make([]string, 0, len(collisions))
	for h := range collisions {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)
	for _, h := range hashes {
		log.Printf("warning: projects %q share short hash %s, /we-created/%s serves %q", collisions[h], h, h, collisions[h][0])
	}

	log.Printf("loaded %d projects and %d company logos from %s", len(projects), len(companies), l.Config.ContentDir)
	return &model.Site{
		Global:      global,
		Projects:    projects,
		Companies:   companies,
		CurrentYear: loadedAt.Year() + 1,
		Entrypoint:  entrypoint,
		LoadedAt:    loadedAt,
	}, nil
}

func loadGlobal(filename string) (model.Global, error) {
	var global model.Global
	data, err := os.ReadFile(filename)
	if err != nil {
		return global, fmt.Errorf("error reading global file %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &global); err != nil {
		return global, fmt.Errorf("error unmarshalling global file %s: %w", filename, err)
	}
	for k, v := range global.Extra {
		global.Extra[k] = normalize(v)
	}
	return global, nil
}

func loadProjects(filename string) (model.Projects, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading projects file %s: %w", filename, err)
	}
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error unmarshalling projects file %s: %w", filename, err)
	}

	projects := make(model.Projects, 0, len(doc))
	seen := make(map[string]bool, len(doc))
	for _, item := range doc {
		name := fmt.Sprint(item.Key)
		if seen[name] {
			return nil, fmt.Errorf("projects file %s: duplicate project %q", filename, name)
		}
		seen[name] = true

		record := model.Record{}
		switch v := normalize(item.Value).(type) {
		case nil:
		case map[string]interface{}:
			record = v
		default:
			return nil, fmt.Errorf("projects file %s: project %q must be a mapping, got %T", filename, name, item.Value)
		}
		projects = append(projects, model.Project{Name: name, Record: record})
	}
	return projects, nil
}

// listCompanies returns the logo paths relative to staticDir, e.g. "cie/sm/acme.png".
func listCompanies(staticDir, companiesDir string) ([]string, error) {
	dir := filepath.Join(staticDir, filepath.FromSlash(companiesDir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error listing companies directory %s: %w", dir, err)
	}
	companies := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		companies = append(companies, path.Join(companiesDir, entry.Name()))
	}
	return companies, nil
}

// loadEntrypoint returns nil when the file does not exist.
func loadEntrypoint(filename string) (*model.Entrypoint, error) {
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading entrypoint file %s: %w", filename, err)
	}

	var matter struct {
		Title   string `yaml:"title"`
		Tagline string `yaml:"tagline"`
	}
	body, err := frontmatter.Parse(bytes.NewReader(data), &matter)
	if err != nil {
		return nil, fmt.Errorf("error parsing front matter of %s: %w", filename, err)
	}
	html, err := Markdown(body)
	if err != nil {
		return nil, fmt.Errorf("entrypoint file %s: %w", filename, err)
	}
	return &model.Entrypoint{Title: matter.Title, Tagline: matter.Tagline, Body: html}, nil
}

// normalize turns the generic maps produced by yaml.v2 into string-keyed
// maps so templates can address fields by name.
func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case yaml.MapSlice:
		m := make(map[string]interface{}, len(v))
		for _, item := range v {
			m[fmt.Sprint(item.Key)] = normalize(item.Value)
		}
		return m
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
