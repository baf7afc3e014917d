package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodiehub/services"
	"github.com/yeremiapane/foodiehub/utils"
)

// SessionController issues storefront session tokens. The customer's name
// and email come from the external identity provider.
type SessionController struct {
	Sessions *services.SessionManager
}

func NewSessionController(sessions *services.SessionManager) *SessionController {
	return &SessionController{Sessions: sessions}
}

func (sc *SessionController) StartSession(c *gin.Context) {
	var req struct {
		Name         string `json:"name"`
		Email        string `json:"email" binding:"omitempty,email"`
		SessionToken string `json:"sessionToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	id := ""
	if req.SessionToken != "" {
		if claims, err := utils.ParseSessionToken(req.SessionToken); err == nil {
			id = claims.SessionID
			if req.Name == "" {
				req.Name, req.Email = claims.UserName, claims.UserEmail
			}
		}
	}
	if id == "" {
		id = services.NewSessionID()
	}

	token, err := utils.GenerateSessionToken(id, req.Name, req.Email)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	sess := sc.Sessions.Get(id, userFrom(req.Name, req.Email))
	utils.RespondJSON(c, http.StatusOK, "Session started", gin.H{
		"sessionId": id,
		"token":     token,
		"user":      sess.User(),
		"cartCount": sess.Cart.ItemCount(),
	})
}
