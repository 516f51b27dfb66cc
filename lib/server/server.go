// Package server lets users list and download the composites they can view.
package server

import (
	"errors"
	"image/png"
	"mime"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-rod/fullpage/lib/store"
	"github.com/go-rod/fullpage/lib/utils"
)

// Server of the shots
type Server struct {
	Store *store.Store

	// Accounts for basic auth, user name to password
	Accounts map[string]string

	Logger utils.Logger
}

// New server
func New(s *store.Store, accounts map[string]string) *Server {
	return &Server{Store: s, Accounts: accounts, Logger: utils.LoggerQuiet}
}

// Engine with all the routes
func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), s.log, gin.BasicAuth(gin.Accounts(s.Accounts)))

	engine.GET("/shots", s.list)
	engine.GET("/shots/:id/download", s.download)
	engine.GET("/shots/:id/thumb", s.thumb)

	return engine
}

func (s *Server) log(c *gin.Context) {
	start := time.Now()
	c.Next()

	logger := s.Logger
	if logger == nil {
		return
	}
	logger.Println("[server]", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
}

type item struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Owner   string    `json:"owner"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Created time.Time `json:"created"`
}

func (s *Server) list(c *gin.Context) {
	list, err := s.Store.List(c.Request.Context(), c.GetString(gin.AuthUserKey))
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	items := []item{}
	for _, shot := range list {
		items = append(items, item{shot.ID, shot.Name, shot.Owner, shot.Width, shot.Height, shot.Created})
	}
	c.JSON(http.StatusOK, items)
}

// shot resolves the id to a viewable file or aborts with the matching status
func (s *Server) shot(c *gin.Context) (*store.Shot, bool) {
	ctx := c.Request.Context()

	shot, err := s.Store.Get(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) || (err == nil && shot.File == "") {
		c.AbortWithStatus(http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return nil, false
	}

	ok, err := s.Store.CanView(ctx, c.GetString(gin.AuthUserKey), shot)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return nil, false
	}
	if !ok {
		c.AbortWithStatus(http.StatusForbidden)
		return nil, false
	}

	if !s.Store.Exists(shot) {
		c.AbortWithStatus(http.StatusNotFound)
		return nil, false
	}

	return shot, true
}

func (s *Server) download(c *gin.Context) {
	shot, ok := s.shot(c)
	if !ok {
		return
	}

	f, err := os.Open(s.Store.Path(shot))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.DataFromReader(http.StatusOK, info.Size(), "image/png", f, map[string]string{
		"Content-Disposition": disposition(shot.Name),
	})
}

// disposition of an attachment, non ascii names are encoded as RFC 2231 filename*
func disposition(name string) string {
	v := mime.FormatMediaType("attachment", map[string]string{"filename": name})
	if v == "" {
		return "attachment"
	}
	return v
}

func (s *Server) thumb(c *gin.Context) {
	shot, ok := s.shot(c)
	if !ok {
		return
	}

	width, err := strconv.Atoi(c.DefaultQuery("width", "200"))
	if err != nil || width <= 0 {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	f, err := os.Open(s.Store.Path(shot))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	bin, err := utils.EncodePNG(utils.Thumbnail(img, width))
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", bin)
}
