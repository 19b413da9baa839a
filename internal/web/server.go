// Package web serves the site: route handlers, templates and the error presenter.
package web

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/kissit/website/internal/config"
	"github.com/kissit/website/internal/model"
)

// Server is one generation of the web application. Its Site never changes;
// the serve command builds a new Server when content is reloaded.
type Server struct {
	Site   *model.Site
	Config config.Config
	Router *gin.Engine
	pages  map[string]*template.Template
}

// NewServer parses the templates and wires the routes. The gin mode is
// chosen by the caller.
func NewServer(cfg config.Config, s *model.Site) (*Server, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      cfg.Debug,
	}
	if cfg.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	server := &Server{
		Site:   s,
		Config: cfg,
		Router: router,
		pages:  pages,
	}

	router.Use(gin.Logger(), secure.New(secureConfig), server.presentErrors())
	server.setupRoutes()
	return server, nil
}

func (s *Server) setupRoutes() {
	s.Router.Static("/static", s.Config.StaticDir)
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	s.Router.GET("/", s.entrypoint)
	s.Router.GET("/we-created", s.projects)
	s.Router.GET("/we-created/:hash", s.project)
	s.Router.GET("/contact-us", s.contact)

	s.Router.NoRoute(s.noRoute)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) pageData(title string) model.PageData {
	return model.PageData{
		PageTitle:   title,
		CurrentYear: s.Site.CurrentYear,
		Global:      s.Site.Global,
	}
}
