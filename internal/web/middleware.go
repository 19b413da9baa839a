package web

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kissit/website/internal/model"
)

// presentErrors is the single place where failures become responses.
// Handlers report through c.Error; panics are recovered here as well.
func (s *Server) presentErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				s.renderError(c, &Error{Kind: KindUnexpected, Err: err, Location: string(debug.Stack())})
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		s.renderError(c, c.Errors.Last().Err)
	}
}

func (s *Server) renderError(c *gin.Context, err error) {
	e := classify(err)
	status := e.Status()

	if status == http.StatusInternalServerError {
		location := e.Location
		if location == "" {
			location = "unknown"
		}
		log.Printf("[ERROR] %s %s: %s: %v\n%s", c.Request.Method, c.Request.URL.Path, e.Kind, e.Err, location)
	}

	if c.Writer.Written() {
		log.Printf("response for %s already written, dropping error page", c.Request.URL.Path)
		return
	}

	data := model.ErrorPage{
		PageData:    s.pageData(http.StatusText(status)),
		Description: e.Description,
		HTTPStatus:  status,
		Error:       e.Kind.String(),
		Cause:       e.Error(),
	}
	body, rerr := s.Render("error.html", data)
	if rerr != nil {
		log.Printf("error rendering error template: %v", rerr)
		c.String(status, "%d %s: %s", status, e.Kind, e.Error())
		return
	}
	c.Data(status, "text/html; charset=utf-8", body)
}
