// Package web serves the inventory pages over HTTP with gin. Each page maps
// one form to one inventory operation; results come back to the browser as
// one-shot flash messages carried by the visitor's session.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/stockroom/internal/auth"
	"github.com/mesh-intelligence/stockroom/internal/inventory"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// DefaultCookieName names the session cookie when Options leaves it empty.
const DefaultCookieName = "stockroom_session"

// Inventory is the set of operations the pages drive.
// *inventory.Service satisfies it.
type Inventory interface {
	AddProduct(ctx context.Context, name string, price float64, qty int) (inventory.Result, error)
	UpdateStock(ctx context.Context, id int64, qty int) (inventory.Result, error)
	SellProduct(ctx context.Context, id int64, qty int) (inventory.Result, error)
	DeleteProduct(ctx context.Context, id int64) (inventory.Result, error)
	ClearActivityLog(ctx context.Context) error
	Inventory(ctx context.Context) ([]types.Product, error)
	ActivityLog(ctx context.Context) ([]types.ActivityEntry, error)
}

// Pinger reports store health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options are the dependencies of a Server.
type Options struct {
	Inventory  Inventory
	Gate       *auth.Gate
	Sessions   *auth.Sessions
	Health     Pinger
	Logger     logrus.FieldLogger
	CookieName string
	// SecureCookie marks the session cookie Secure. Leave false for plain
	// HTTP on localhost.
	SecureCookie bool
}

// Errors returned by NewServer for incomplete Options.
var (
	ErrNoInventory = errors.New("web: inventory is required")
	ErrNoGate      = errors.New("web: gate is required")
	ErrNoSessions  = errors.New("web: sessions are required")
)

// Server holds the gin engine and the page handlers.
type Server struct {
	engine   *gin.Engine
	inv      Inventory
	gate     *auth.Gate
	sessions *auth.Sessions
	health   Pinger
	log      logrus.FieldLogger
	cookie   string
	secure   bool
}

// NewServer builds the router and parses the embedded templates.
func NewServer(opts Options) (*Server, error) {
	switch {
	case opts.Inventory == nil:
		return nil, ErrNoInventory
	case opts.Gate == nil:
		return nil, ErrNoGate
	case opts.Sessions == nil:
		return nil, ErrNoSessions
	}

	s := &Server{
		inv:      opts.Inventory,
		gate:     opts.Gate,
		sessions: opts.Sessions,
		health:   opts.Health,
		log:      opts.Logger,
		cookie:   opts.CookieName,
		secure:   opts.SecureCookie,
	}
	if s.log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		s.log = quiet
	}
	if s.cookie == "" {
		s.cookie = DefaultCookieName
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.loggingMiddleware())
	s.engine.SetHTMLTemplate(tmpl)

	s.registerRoutes()
	return s, nil
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	site := s.engine.Group("/")
	site.Use(s.sessionMiddleware())
	{
		site.GET("/login", s.handleLoginPage)
		site.POST("/login", s.handleLogin)
		site.POST("/logout", s.handleLogout)
	}

	pages := site.Group("/")
	pages.Use(s.requireLogin())
	{
		pages.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, pathAdd) })

		pages.GET(pathAdd, s.handleAddPage)
		pages.POST(pathAdd, s.handleAdd)

		pages.GET(pathStock, s.handleStockPage)
		pages.POST(pathStock, s.handleStock)

		pages.GET(pathSell, s.handleSellPage)
		pages.POST(pathSell, s.handleSell)

		pages.GET(pathInventory, s.handleInventoryPage)
		pages.POST(pathInventory+"/:id/delete", s.handleDelete)
		pages.GET(pathInventory+"/export.xlsx", s.handleExport)

		pages.GET(pathActivity, s.handleActivityPage)
		pages.POST(pathActivity+"/clear", s.handleClearActivity)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	if err := s.health.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// templateFuncs are available to every page template.
var templateFuncs = template.FuncMap{
	"money":     func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"timestamp": types.FormatTimestamp,
}
