package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/services"
	"marketplace/web"
)

type ItemController struct {
	catalog *services.CatalogService
}

func NewItemController(catalog *services.CatalogService) *ItemController {
	return &ItemController{catalog: catalog}
}

// Image serves the raw image blob stored with an item.
func (ctrl *ItemController) Image(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}

	item, err := ctrl.catalog.GetItem(c.Request.Context(), itemID)
	if err != nil {
		renderError(c, err)
		return
	}
	if !item.HasImage() {
		web.AbortWithError(c, http.StatusNotFound, "This item has no image.")
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, item.ImageContentType, item.Image)
}
