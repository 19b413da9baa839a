package model

import (
	"html/template"
	"time"
)

// Contact holds the contact block of the global site document.
type Contact struct {
	Email string `yaml:"email"`
}

// Global is the site-wide document (content/global.yaml). Only Contact.Email
// is read by code; every other key is kept in Extra for the templates.
type Global struct {
	Contact Contact                `yaml:"contact"`
	Extra   map[string]interface{} `yaml:",inline"`
}

// Record is the display-only attribute bag of a project.
type Record map[string]interface{}

// Project is a single entry of content/projects.yaml.
type Project struct {
	Name   string
	Record Record
}

// Projects keeps the order in which projects appear in projects.yaml.
type Projects []Project

// Names returns the project names in document order.
func (p Projects) Names() []string {
	names := make([]string, len(p))
	for i, project := range p {
		names[i] = project.Name
	}
	return names
}

// Entrypoint is the optional landing page copy read from content/entrypoint.md.
type Entrypoint struct {
	Title   string
	Tagline string
	Body    template.HTML
}

// Site is the immutable snapshot built once at startup and shared by every
// request handler.
type Site struct {
	Global      Global
	Projects    Projects
	Companies   []string
	CurrentYear int
	Entrypoint  *Entrypoint
	LoadedAt    time.Time
}
