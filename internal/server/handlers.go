package server

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tengjizhang/scrub/internal/model"
	"github.com/tengjizhang/scrub/internal/store"
)

func (s *Server) routes() {
	s.echo.POST("/sanitize", s.handleSanitize)
	s.echo.POST("/encode", s.handleEncode)
	s.echo.GET("/documents", s.handleListDocuments)
	s.echo.PUT("/documents/:name", s.handlePutDocument)
	s.echo.GET("/documents/:name", s.handleGetDocument)
	s.echo.DELETE("/documents/:name", s.handleDeleteDocument)
	s.echo.GET("/stats", s.handleStats)
	s.echo.GET("/policy", s.handlePolicy)
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
}

// readBody reads at most one byte past the ceiling so the service can
// reject oversize bodies without buffering them whole.
func (s *Server) readBody(c echo.Context) (string, error) {
	limit := s.docs.MaxInputBytes()
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, limit+1))
	if err != nil {
		return "", newBadRequest("could not read request body")
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: body exceeds the %d byte limit", store.ErrTooLarge, limit)
	}
	return string(data), nil
}

func (s *Server) handleSanitize(c echo.Context) error {
	raw, err := s.readBody(c)
	if err != nil {
		return err
	}
	out, err := s.docs.Sanitize(raw)
	if err != nil {
		return err
	}
	return c.HTML(http.StatusOK, out)
}

func (s *Server) handleEncode(c echo.Context) error {
	raw, err := s.readBody(c)
	if err != nil {
		return err
	}
	out, err := s.docs.Encode(raw)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, out)
}

func (s *Server) handlePutDocument(c echo.Context) error {
	raw, err := s.readBody(c)
	if err != nil {
		return err
	}
	res, err := s.docs.Put(c.Request().Context(), pathName(c), raw, c.QueryParam("source"))
	if err != nil {
		return err
	}
	code := http.StatusOK
	if res.Inserted {
		code = http.StatusCreated
	}
	return c.JSON(code, res)
}

func (s *Server) handleGetDocument(c echo.Context) error {
	ctx := c.Request().Context()
	switch format := strings.ToLower(c.QueryParam("format")); format {
	case "", "html":
		doc, err := s.docs.Get(ctx, pathName(c))
		if err != nil {
			return err
		}
		return c.HTML(http.StatusOK, doc.HTML)
	case "json":
		doc, err := s.docs.Get(ctx, pathName(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, doc)
	case "markdown", "md":
		md, err := s.docs.Markdown(ctx, pathName(c))
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "text/markdown; charset=UTF-8", []byte(md))
	default:
		return newBadRequest(fmt.Sprintf("unsupported format %q: use html, json or markdown", format))
	}
}

func (s *Server) handleListDocuments(c echo.Context) error {
	opts := model.ListOptions{Prefix: c.QueryParam("prefix")}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return newBadRequest("limit must be a positive integer")
		}
		opts.Limit = n
	}
	docs, err := s.docs.List(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, docs)
}

func (s *Server) handleDeleteDocument(c echo.Context) error {
	if err := s.docs.Delete(c.Request().Context(), pathName(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleStats(c echo.Context) error {
	st, err := s.docs.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (s *Server) handlePolicy(c echo.Context) error {
	return c.JSON(http.StatusOK, s.docs.Policy().Config())
}

func pathName(c echo.Context) string {
	raw := c.Param("name")
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
