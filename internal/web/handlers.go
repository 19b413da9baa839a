package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/kissit/website/internal/model"
	"github.com/kissit/website/internal/site"
)

const projectsPath = "/we-created"

// ProjectURL is the detail page of p. Names sharing a short hash get a
// name query so that each of them keeps a distinct link.
func ProjectURL(p model.Project, collisions map[string][]string) string {
	h := site.ShortHash(p.Name)
	u := projectsPath + "/" + h
	if _, ok := collisions[h]; ok {
		u += "?name=" + url.QueryEscape(p.Name)
	}
	return u
}

func (s *Server) EntrypointData() model.EntrypointPage {
	title := "Keep It Simple"
	if s.Site.Entrypoint != nil && s.Site.Entrypoint.Title != "" {
		title = s.Site.Entrypoint.Title
	}
	return model.EntrypointPage{
		PageData:   s.pageData(title),
		Entrypoint: s.Site.Entrypoint,
	}
}

func (s *Server) ProjectsData() model.ProjectsPage {
	collisions := site.Collisions(s.Site.Projects)
	links := make([]model.ProjectLink, len(s.Site.Projects))
	for i, p := range s.Site.Projects {
		links[i] = model.ProjectLink{
			Project: p,
			Hash:    site.ShortHash(p.Name),
			URL:     ProjectURL(p, collisions),
		}
	}
	return model.ProjectsPage{
		PageData:   s.pageData("We created"),
		Companies:  s.Site.Companies,
		Projects:   links,
		Hashes:     site.Hashes(s.Site.Projects),
		Collisions: collisions,
	}
}

func (s *Server) ProjectData(p model.Project) model.ProjectPage {
	return model.ProjectPage{
		PageData: s.pageData(p.Name),
		Name:     p.Name,
		Project:  p.Record,
	}
}

func (s *Server) entrypoint(c *gin.Context) {
	s.renderPage(c, "entrypoint.html", s.EntrypointData())
}

func (s *Server) projects(c *gin.Context) {
	s.renderPage(c, "projects.html", s.ProjectsData())
}

func (s *Server) project(c *gin.Context) {
	hash := c.Param("hash")
	p, err := site.ResolveNamed(hash, c.Query("name"), s.Site.Projects)
	if errors.Is(err, site.ErrNotFound) {
		c.Error(NotFound(err, template.HTML(fmt.Sprintf(
			"We looked everywhere but found no trace of a project with hash code '%s'.<br>"+
				`You are more than welcome to <a href="%s">look at a selection of our work</a>.`,
			template.HTMLEscapeString(hash), projectsPath))))
		return
	}
	if err != nil {
		c.Error(Unexpected(err))
		return
	}
	s.renderPage(c, "project.html", s.ProjectData(p))
}

// contact redirects to the configured address as is; it is not validated.
func (s *Server) contact(c *gin.Context) {
	email := s.Site.Global.Contact.Email
	if email == "" {
		c.Error(Unexpected(errors.New("contact.email is not set in the global configuration")))
		return
	}
	c.Redirect(http.StatusFound, "mailto:"+email)
}

func (s *Server) noRoute(c *gin.Context) {
	c.Error(NotFound(fmt.Errorf("no page at %s", c.Request.URL.Path),
		template.HTML(`The page you asked for does not exist. Try the <a href="/">home page</a>.`)))
}

func (s *Server) renderPage(c *gin.Context, page string, data interface{}) {
	body, err := s.Render(page, data)
	if err != nil {
		c.Error(Unexpected(err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
