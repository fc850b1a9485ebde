package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finchat/internal/chat"
)

type ChatController struct {
	Store   *chat.Store
	Advisor *chat.Advisor
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// PostMessage advances one conversation turn. An empty session_id opens a
// new session; an empty first message returns the greeting.
func (cc *ChatController) PostMessage(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var session *chat.Session
	if req.SessionID == "" {
		session = cc.Store.Create()
		if req.Message == "" {
			c.JSON(http.StatusOK, gin.H{
				"session_id": session.ID,
				"reply":      cc.Advisor.Greeting(),
				"stage":      session.Stage,
			})
			return
		}
	} else {
		var ok bool
		session, ok = cc.Store.Get(req.SessionID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
	}

	reply := cc.Advisor.Handle(c.Request.Context(), session, req.Message)

	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"reply":      reply,
		"stage":      session.Stage,
	})
}
