package httpHandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"geo-server/auth"
	"geo-server/entities"
	"geo-server/geojson"
	"geo-server/usecases"
	"geo-server/ws"
)

type StructureHandler struct {
	useCase *usecases.StructureUseCase
	feed    *ws.Manager
}

func NewStructureHandler(useCase *usecases.StructureUseCase, feed *ws.Manager) *StructureHandler {
	return &StructureHandler{
		useCase: useCase,
		feed:    feed,
	}
}

// GetAllStructures handles GET /api/v1/structures
func (h *StructureHandler) GetAllStructures(c *gin.Context) {
	structures, err := h.useCase.GetAllStructures()
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

// GetStructure handles GET /api/v1/structures/:id
func (h *StructureHandler) GetStructure(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	structure, err := h.useCase.GetStructure(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Structure not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve structure",
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

	c.JSON(http.StatusOK, feature)
}

// CreateStructure handles POST /api/v1/structures. The authenticated caller
// becomes the owner.
func (h *StructureHandler) CreateStructure(c *gin.Context) {
	var structure entities.Structure
	if err := c.ShouldBindJSON(&structure); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	identity, ok := auth.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Missing identity",
		})
		return
	}
	structure.ID = 0
	structure.UserID = &identity

	if err := h.useCase.CreateStructure(&structure); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	feature, err := geojson.NewFeature(&structure)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to serialize structure",
		})
		return
	}

	h.feed.Broadcast(ws.NewEvent("structure_created", identity, structure.ID))

	c.JSON(http.StatusCreated, feature)
}
