package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/stockroom/internal/auth"
)

// sessionKey is the gin context key holding the visitor's session id.
const sessionKey = "session_id"

// loggingMiddleware logs one record per request.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		entry := s.log.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request")
	}
}

// sessionMiddleware attaches the visitor's session when the cookie names a
// live one. Sessions are started lazily by startSession, so anonymous
// requests leave the registry untouched.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(s.cookie); err == nil {
			if _, ok := s.sessions.Get(id); ok {
				c.Set(sessionKey, id)
			}
		}
		c.Next()
	}
}

// startSession returns the request's session id, starting a session and
// setting its cookie when there is none.
func (s *Server) startSession(c *gin.Context) string {
	if id := sessionID(c); id != "" {
		return id
	}
	id := s.sessions.Start()
	s.setSessionCookie(c, id, 0)
	c.Set(sessionKey, id)
	return id
}

// requireLogin redirects visitors without a logged-in session to /login.
func (s *Server) requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.session(c).LoggedIn {
			c.Redirect(http.StatusSeeOther, pathLogin)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) setSessionCookie(c *gin.Context, id string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookie, id, maxAge, "/", "", s.secure, true)
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

func (s *Server) session(c *gin.Context) auth.Session {
	sess, _ := s.sessions.Get(sessionID(c))
	return sess
}

// flash queues a message for the next page and redirects there.
func (s *Server) flash(c *gin.Context, to string, kind auth.FlashKind, msg string) {
	if err := s.sessions.SetFlash(s.startSession(c), auth.Flash{Kind: kind, Message: msg}); err != nil {
		s.log.WithError(err).WithField("message", msg).Debug("flash dropped")
	}
	c.Redirect(http.StatusSeeOther, to)
}
