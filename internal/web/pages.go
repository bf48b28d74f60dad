package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/stockroom/internal/auth"
	"github.com/mesh-intelligence/stockroom/internal/logging"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Page paths.
const (
	pathLogin     = "/login"
	pathAdd       = "/add"
	pathStock     = "/stock"
	pathSell      = "/sell"
	pathInventory = "/inventory"
	pathActivity  = "/activity"
)

// User-facing messages.
const (
	msgLoginOK        = "Login successful!"
	msgLoginFailed    = "Invalid credentials"
	msgInvalidProduct = "Please enter valid product details."
	msgNoProducts     = "No products available."
	msgEmptyInventory = "No products in inventory."
	msgNoActivity     = "No activity recorded yet."
	msgActivityClear  = "Activity log cleared!"
	msgServerError    = "Something went wrong. Please try again."
)

type menuItem struct {
	Label  string
	Path   string
	Active bool
}

// menu lists the pages in display order.
var menu = []menuItem{
	{Label: "Add Product", Path: pathAdd},
	{Label: "Update Stock", Path: pathStock},
	{Label: "Sell Product", Path: pathSell},
	{Label: "View Inventory", Path: pathInventory},
	{Label: "Activity History", Path: pathActivity},
}

// bar is one row of the stock chart.
type bar struct {
	Name     string
	Quantity int
	Percent  int
}

// page is the data every template receives.
type page struct {
	Title    string
	Menu     []menuItem
	Username string
	Flashes  []auth.Flash

	Form     any
	Products []types.Product
	Entries  []types.ActivityEntry
	Bars     []bar
}

// newPage builds the shared page data and consumes any pending flash.
func (s *Server) newPage(c *gin.Context, title string) *page {
	p := &page{Title: title}

	sess := s.session(c)
	if sess.LoggedIn {
		p.Username = sess.Username
		p.Menu = make([]menuItem, len(menu))
		for i, m := range menu {
			m.Active = m.Path == c.FullPath()
			p.Menu[i] = m
		}
	}
	if f, ok := s.sessions.PopFlash(sessionID(c)); ok {
		p.Flashes = append(p.Flashes, f)
	}
	return p
}

func (p *page) add(kind auth.FlashKind, msg string) *page {
	p.Flashes = append(p.Flashes, auth.Flash{Kind: kind, Message: msg})
	return p
}

// fail logs a storage failure and renders the error page for this request.
func (s *Server) fail(c *gin.Context, funcName, context string, data any, err error) {
	logging.LogError(s.log, "web", funcName, context, data, err)
	p := s.newPage(c, "Error").add(auth.FlashError, msgServerError)
	c.HTML(http.StatusInternalServerError, "error", p)
}

func (s *Server) handleLoginPage(c *gin.Context) {
	if s.session(c).LoggedIn {
		c.Redirect(http.StatusSeeOther, pathAdd)
		return
	}
	c.HTML(http.StatusOK, "login", s.newPage(c, "Login"))
}

func (s *Server) handleLogin(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		s.log.WithField("fields", fieldErrors(err)).Debug("login form unreadable")
	}

	if !s.gate.Login(form.Username, form.Password) {
		s.log.WithField("username", form.Username).Info("login rejected")
		p := s.newPage(c, "Login").add(auth.FlashError, msgLoginFailed)
		c.HTML(http.StatusUnauthorized, "login", p)
		return
	}

	if err := s.sessions.MarkLoggedIn(s.startSession(c), form.Username); err != nil {
		s.fail(c, "handleLogin", "marking session logged in", nil, err)
		return
	}
	s.flash(c, pathAdd, auth.FlashSuccess, msgLoginOK)
}

func (s *Server) handleLogout(c *gin.Context) {
	s.sessions.End(sessionID(c))
	s.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusSeeOther, pathLogin)
}

func (s *Server) handleAddPage(c *gin.Context) {
	c.HTML(http.StatusOK, "add", s.newPage(c, "Add Product"))
}

func (s *Server) handleAdd(c *gin.Context) {
	var form addForm
	if err := c.ShouldBind(&form); err != nil || !form.normalize() {
		if err != nil {
			s.log.WithField("fields", fieldErrors(err)).Debug("add product rejected")
		}
		p := s.newPage(c, "Add Product").add(auth.FlashWarning, msgInvalidProduct)
		p.Form = form
		c.HTML(http.StatusBadRequest, "add", p)
		return
	}

	res, err := s.inv.AddProduct(c.Request.Context(), form.Name, form.Price, form.Quantity)
	if errors.Is(err, types.ErrInvalidPrice) || errors.Is(err, types.ErrInvalidQuantity) {
		s.log.WithError(err).Debug("add product rejected")
		p := s.newPage(c, "Add Product").add(auth.FlashWarning, msgInvalidProduct)
		p.Form = form
		c.HTML(http.StatusBadRequest, "add", p)
		return
	}
	if err != nil {
		s.fail(c, "handleAdd", "adding product", form, err)
		return
	}
	s.flash(c, pathAdd, auth.FlashSuccess, res.Message)
}

// productsPage renders a page that needs the product list, showing
// emptyMsg instead of the form when there are none.
func (s *Server) productsPage(c *gin.Context, name, title, emptyMsg string) {
	products, err := s.inv.Inventory(c.Request.Context())
	if err != nil {
		s.fail(c, "productsPage", "listing products for "+name, nil, err)
		return
	}
	p := s.newPage(c, title)
	p.Products = products
	if len(products) == 0 {
		p.add(auth.FlashInfo, emptyMsg)
	}
	c.HTML(http.StatusOK, name, p)
}

func (s *Server) handleStockPage(c *gin.Context) {
	s.productsPage(c, "stock", "Update Stock", msgNoProducts)
}

func (s *Server) handleStock(c *gin.Context) {
	var form stockForm
	if err := c.ShouldBind(&form); err != nil {
		s.log.WithField("fields", fieldErrors(err)).Debug("stock update rejected")
		s.flash(c, pathStock, auth.FlashWarning, "Please enter a valid product and quantity.")
		return
	}

	res, err := s.inv.UpdateStock(c.Request.Context(), form.ProductID, form.Quantity)
	if err != nil {
		s.fail(c, "handleStock", "updating stock", form, err)
		return
	}
	if !res.Affected {
		s.flash(c, pathStock, auth.FlashWarning,
			fmt.Sprintf("No product with ID %d exists. The update was logged but no stock changed.", form.ProductID))
		return
	}
	s.flash(c, pathStock, auth.FlashSuccess, res.Message)
}

func (s *Server) handleSellPage(c *gin.Context) {
	s.productsPage(c, "sell", "Sell Product", msgNoProducts)
}

func (s *Server) handleSell(c *gin.Context) {
	var form sellForm
	if err := c.ShouldBind(&form); err != nil {
		s.log.WithField("fields", fieldErrors(err)).Debug("sale rejected")
		s.flash(c, pathSell, auth.FlashWarning, "Please enter a valid product and quantity.")
		return
	}

	res, err := s.inv.SellProduct(c.Request.Context(), form.ProductID, form.Quantity)
	if err != nil {
		s.fail(c, "handleSell", "selling product", form, err)
		return
	}
	if !res.Success {
		s.flash(c, pathSell, auth.FlashError, res.Message)
		return
	}
	s.flash(c, pathSell, auth.FlashSuccess, res.Message)
}

func (s *Server) handleInventoryPage(c *gin.Context) {
	products, err := s.inv.Inventory(c.Request.Context())
	if err != nil {
		s.fail(c, "handleInventoryPage", "listing inventory", nil, err)
		return
	}
	p := s.newPage(c, "View Inventory")
	p.Products = products
	p.Bars = stockBars(products)
	if len(products) == 0 {
		p.add(auth.FlashInfo, msgEmptyInventory)
	}
	c.HTML(http.StatusOK, "inventory", p)
}

// stockBars scales each quantity against the largest one. The ratio is
// taken in float64 so very large quantities cannot overflow.
func stockBars(products []types.Product) []bar {
	highest := 0
	for _, p := range products {
		highest = max(highest, p.Quantity)
	}
	bars := make([]bar, len(products))
	for i, p := range products {
		bars[i] = bar{Name: p.Name, Quantity: p.Quantity}
		if highest > 0 {
			bars[i].Percent = int(float64(p.Quantity) / float64(highest) * 100)
		}
	}
	return bars
}

func (s *Server) handleDelete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.flash(c, pathInventory, auth.FlashWarning, "Invalid product ID.")
		return
	}

	res, err := s.inv.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		s.fail(c, "handleDelete", "deleting product", id, err)
		return
	}
	kind := auth.FlashSuccess
	if !res.Affected {
		kind = auth.FlashWarning
	}
	s.flash(c, pathInventory, kind, res.Message)
}

func (s *Server) handleActivityPage(c *gin.Context) {
	entries, err := s.inv.ActivityLog(c.Request.Context())
	if err != nil {
		s.fail(c, "handleActivityPage", "listing activity", nil, err)
		return
	}
	p := s.newPage(c, "Activity History")
	p.Entries = entries
	if len(entries) == 0 {
		p.add(auth.FlashInfo, msgNoActivity)
	}
	c.HTML(http.StatusOK, "activity", p)
}

func (s *Server) handleClearActivity(c *gin.Context) {
	if err := s.inv.ClearActivityLog(c.Request.Context()); err != nil {
		s.fail(c, "handleClearActivity", "clearing activity log", nil, err)
		return
	}
	s.flash(c, pathActivity, auth.FlashSuccess, msgActivityClear)
}
