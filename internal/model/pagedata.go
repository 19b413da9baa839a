package model

import "html/template"

// PageData is embedded in the data of every rendered page.
type PageData struct {
	PageTitle   string
	CurrentYear int
	Global      Global
}

type EntrypointPage struct {
	PageData
	Entrypoint *Entrypoint
}

// ProjectLink is a listing row: the project plus the URL of its detail page.
type ProjectLink struct {
	Project
	Hash string
	URL  string
}

type ProjectsPage struct {
	PageData
	Companies  []string
	Projects   []ProjectLink
	Hashes     map[string]string
	Collisions map[string][]string
}

type ProjectPage struct {
	PageData
	Name    string
	Project Record
}

type ErrorPage struct {
	PageData
	Description template.HTML
	HTTPStatus  int
	Error       string
	Cause       string
}
