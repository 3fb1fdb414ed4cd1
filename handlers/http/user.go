package httpHandler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"geo-server/auth"
	"geo-server/geojson"
	"geo-server/usecases"
	"geo-server/ws"
)

type UserHandler struct {
	useCase *usecases.UserUseCase
	feed    *ws.Manager
}

func NewUserHandler(useCase *usecases.UserUseCase, feed *ws.Manager) *UserHandler {
	return &UserHandler{
		useCase: useCase,
		feed:    feed,
	}
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
}

type AddFavoriteRequest struct {
	StructureID uint `json:"structure_id" binding:"required"`
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

// GetAllUsers handles GET /api/v1/users
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.useCase.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  users,
		"count": len(users),
	})
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	user, err := h.useCase.CreateUser(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Username already taken",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"data":    user,
	})
}

// GetUser handles GET /api/v1/users/:user_id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	user, err := h.useCase.GetUser(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": user,
	})
}

// UpdateUser handles PUT /api/v1/users/:user_id. Requires a verified
// identity; keeps the stored hash when no new password is supplied.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	user, err := h.useCase.UpdateUser(id, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"data":    user,
	})
}

// DeleteUser handles DELETE /api/v1/users/:user_id. A user can only delete
// itself; any other caller gets 401 and nothing is touched.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	identity, ok := auth.Identity(c)
	if !ok || identity != id {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Cannot delete user. An user can only delete itself",
		})
		return
	}

	if err := h.useCase.DeleteUser(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete user",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetUserStructures handles GET /api/v1/users/:user_id/structures
func (h *UserHandler) GetUserStructures(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	structures, err := h.useCase.GetStructuresByOwner(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve structures",
		})
		return
	}

	collection, err := geojson.NewFeatureCollection(structures)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to serialize structures",
		})
		return
	}

	c.JSON(http.StatusOK, collection)
}

// GetUserFavorites handles GET /api/v1/users/:user_id/favorites
func (h *UserHandler) GetUserFavorites(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	structures, err := h.useCase.GetFavoritesByUser(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve favorites",
		})
		return
	}

	collection, err := geojson.NewFeatureCollection(structures)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to serialize favorites",
		})
		return
	}

	c.JSON(http.StatusOK, collection)
}

// AddFavorite handles POST /api/v1/users/:user_id/favorites. Requires a
// verified identity. The caller is intentionally allowed to differ from
// :user_id; see DESIGN.md for why this asymmetry is kept.
func (h *UserHandler) AddFavorite(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	structure, err := h.useCase.AddFavorite(id, req.StructureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Structure not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add favorite",
		})
		return
	}

	feature, err := geojson.NewFeature(structure)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to serialize structure",
		})
		return
	}

	h.feed.Broadcast(ws.NewEvent("favorite_added", id, structure.ID))

	c.JSON(http.StatusCreated, feature)
}

// RemoveFavorite handles DELETE /api/v1/users/:user_id/favorites/:favorite_id.
// A favorite can only be deleted by its user.
func (h *UserHandler) RemoveFavorite(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	favoriteID, ok := paramID(c, "favorite_id")
	if !ok {
		return
	}

	identity, ok := auth.Identity(c)
	if !ok || identity != id {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Cannot delete favorite. A favorite can only be deleted by its user",
		})
		return
	}

	if err := h.useCase.RemoveFavorite(id, favoriteID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove favorite",
		})
		return
	}

	h.feed.Broadcast(ws.NewEvent("favorite_removed", id, favoriteID))

	c.Status(http.StatusNoContent)
}
