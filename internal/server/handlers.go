package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/diogo/offsum/internal/errors"
	"github.com/diogo/offsum/internal/history"
	"github.com/diogo/offsum/internal/models"
	"github.com/diogo/offsum/internal/session"
)

// withSession resolves the cookie to a session, creating one when the
// cookie is missing or names an unknown session.
func (s *Server) withSession(c *gin.Context) {
	id, _ := c.Cookie(CookieName)

	sess, created := s.sessions.GetOrCreate(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, sess.ID, 0, "/", "", false, true)
	}

	c.Set(sessionKey, sess.ID)
	c.Set("session", sess)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet("session").(*session.Session)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"sessions":  s.sessions.Len(),
		"timestamp": time.Now(),
	})
}

func (s *Server) index(c *gin.Context) {
	sess := currentSession(c)
	data := newPageData(sess.Messages(), sess.Style(), s.variant)

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}

func (s *Server) submitForm(c *gin.Context) {
	sess := currentSession(c)

	if _, _, err := sess.Submit(c.Request.Context(), c.PostForm("text")); err != nil {
		s.logger.Debug("submit interrupted", zap.String("session", sess.ID), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) clearForm(c *gin.Context) {
	currentSession(c).Clear()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) styleForm(c *gin.Context) {
	style, err := models.ParseStyle(c.PostForm("style"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	currentSession(c).SetStyle(style)
	c.Redirect(http.StatusSeeOther, "/")
}

type messagesResponse struct {
	Session  string           `json:"session"`
	Style    models.Style     `json:"style"`
	Messages []models.Message `json:"messages"`
}

func newMessagesResponse(sess *session.Session) messagesResponse {
	return messagesResponse{
		Session:  sess.ID,
		Style:    sess.Style(),
		Messages: sess.Messages(),
	}
}

func (s *Server) listMessages(c *gin.Context) {
	c.JSON(http.StatusOK, newMessagesResponse(currentSession(c)))
}

type postMessageRequest struct {
	Text string `json:"text"`
}

type postMessageResponse struct {
	Appended bool             `json:"appended"`
	Reply    string           `json:"reply,omitempty"`
	Messages []models.Message `json:"messages"`
}

func (s *Server) postMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess := currentSession(c)
	turn, ok, err := sess.Submit(c.Request.Context(), req.Text)
	if err != nil {
		s.logger.Debug("submit interrupted", zap.String("session", sess.ID), zap.Error(err))
		status := http.StatusServiceUnavailable
		if errors.Is(err, session.ErrCleared) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, postMessageResponse{
		Appended: ok,
		Reply:    turn.Assistant.Content,
		Messages: sess.Messages(),
	})
}

func (s *Server) clearMessages(c *gin.Context) {
	sess := currentSession(c)
	sess.Clear()
	c.JSON(http.StatusOK, newMessagesResponse(sess))
}

func (s *Server) exportMessages(c *gin.Context) {
	format, err := history.ParseExportFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := currentSession(c)
	data, err := sess.Log().Export(format, sess.Style())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	contentType, ext := "text/markdown; charset=utf-8", "md"
	if format == history.ExportFormatJSON {
		contentType, ext = "application/json; charset=utf-8", "json"
	}
	c.Header("Content-Disposition", `attachment; filename="offsum-transcript.`+ext+`"`)
	c.Data(http.StatusOK, contentType, data)
}

type putStyleRequest struct {
	Style string `json:"style"`
}

func (s *Server) putStyle(c *gin.Context) {
	var req putStyleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	style, err := models.ParseStyle(req.Style)
	if err != nil {
		resp := gin.H{"error": err.Error()}
		if apierrors.IsInvalidStyle(err) {
			resp["allowed"] = models.StyleNames()
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	sess := currentSession(c)
	sess.SetStyle(style)
	c.JSON(http.StatusOK, gin.H{"style": style})
}

func (s *Server) listStyles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"styles":  models.StyleNames(),
		"default": models.DefaultStyle,
		"current": currentSession(c).Style(),
	})
}
