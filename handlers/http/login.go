package httpHandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"geo-server/auth"
	"geo-server/entities"
	"geo-server/usecases"
)

type LoginHandler struct {
	useCase *usecases.UserUseCase
	tokens  *auth.TokenManager
}

func NewLoginHandler(useCase *usecases.UserUseCase, tokens *auth.TokenManager) *LoginHandler {
	return &LoginHandler{
		useCase: useCase,
		tokens:  tokens,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user"`
}

// Login handles POST /api/v1/auth/login. Verifies credentials and issues a
// Bearer token whose subject is the user id.
func (h *LoginHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.useCase.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  user,
	})
}
