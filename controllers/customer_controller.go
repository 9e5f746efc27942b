package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/models"
	"marketplace/services"
)

type CustomerController struct {
	catalog *services.CatalogService
	users   *services.UserService
}

func NewCustomerController(catalog *services.CatalogService, users *services.UserService) *CustomerController {
	return &CustomerController{catalog: catalog, users: users}
}

func (ctrl *CustomerController) Dashboard(c *gin.Context) {
	user := currentUser(c)

	dash, err := ctrl.users.CustomerDashboard(c.Request.Context(), user.ID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "custDash.html", page(user, "Dashboard", gin.H{
		"Name":  dash.Name,
		"Items": dash.Items,
	}))
}

// Catalog shows every item regardless of seller.
func (ctrl *CustomerController) Catalog(c *gin.Context) {
	user := currentUser(c)

	items, err := ctrl.catalog.ListCatalog(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "category.html", page(user, "Catalog", gin.H{
		"Items": items,
	}))
}

func (ctrl *CustomerController) Cart(c *gin.Context) {
	user := currentUser(c)

	items, err := ctrl.users.Cart(c.Request.Context(), user.ID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "cart.html", page(user, "Cart", gin.H{
		"Items": items,
	}))
}

func (ctrl *CustomerController) AddToCart(c *gin.Context) {
	user := currentUser(c)
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.users.AddToCart(c.Request.Context(), user.ID, itemID); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, models.NewNavLinks(user.ID.String()).CustCart)
}

func (ctrl *CustomerController) RemoveFromCart(c *gin.Context) {
	user := currentUser(c)
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.users.RemoveFromCart(c.Request.Context(), user.ID, itemID); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, models.NewNavLinks(user.ID.String()).CustCart)
}

func (ctrl *CustomerController) Checkout(c *gin.Context) {
	user := currentUser(c)

	if _, err := ctrl.users.Checkout(c.Request.Context(), user.ID); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, models.NewNavLinks(user.ID.String()).CustHome)
}
