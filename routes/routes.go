package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/config"
	"marketplace/controllers"
	"marketplace/logger"
	"marketplace/middleware"
	"marketplace/models"
	"marketplace/services"
	"marketplace/web"
)

// Dependencies is everything the HTTP layer needs. Provider is nil when Google
// sign-in is disabled.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Auth     *services.AuthService
	Catalog  *services.CatalogService
	Users    *services.UserService
	Provider services.IdentityProvider
}

// NewRouter builds the engine with middleware, templates and routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORSMiddleware(deps.Config.OriginURL))
	router.SetHTMLTemplate(tmpl)
	router.MaxMultipartMemory = deps.Config.MaxUploadSize

	SetupRoutes(router, deps)
	return router, nil
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	authCtrl := controllers.NewAuthController(deps.Auth, deps.Provider, deps.Config.Session, deps.Logger)
	profileCtrl := controllers.NewProfileController(deps.Auth)
	sellerCtrl := controllers.NewSellerController(deps.Catalog, deps.Users, deps.Config.MaxUploadSize)
	customerCtrl := controllers.NewCustomerController(deps.Catalog, deps.Users)
	itemCtrl := controllers.NewItemController(deps.Catalog)

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.StaticFS("/public", web.Public())

	router.GET("/", authCtrl.Home)
	router.GET("/login", authCtrl.LoginPage)
	router.GET("/register", authCtrl.RegisterPage)
	router.POST("/login", authCtrl.Login)
	router.POST("/register", authCtrl.Register)
	router.GET("/logout", authCtrl.Logout)
	router.GET("/auth/google", authCtrl.GoogleStart)
	router.GET("/auth/google/secrets", authCtrl.GoogleCallback)
	router.GET("/items/:itemId/image", itemCtrl.Image)

	user := router.Group("/:userId")
	user.Use(middleware.AuthMiddleware(deps.Auth, deps.Config.Session.CookieName, deps.Logger), middleware.RequireOwner())
	{
		user.GET("/profile", profileCtrl.Form)
		user.POST("/profile", profileCtrl.Submit)
	}

	seller := user.Group("")
	seller.Use(middleware.RequireCategory(models.CategorySeller))
	{
		seller.GET("/sellerDash", sellerCtrl.Dashboard)
		seller.GET("/Customer", sellerCtrl.Customers)
		seller.GET("/itemCreate", sellerCtrl.NewItem)
		seller.POST("/itemCreate", sellerCtrl.CreateItem)
		seller.GET("/itemUpdate/:itemId", sellerCtrl.EditItem)
		seller.POST("/itemUpdate/:itemId", sellerCtrl.UpdateItem)
	}

	customer := user.Group("")
	customer.Use(middleware.RequireCategory(models.CategoryCustomer))
	{
		customer.GET("/custDash", customerCtrl.Dashboard)
		customer.GET("/category", customerCtrl.Catalog)
		customer.GET("/cart", customerCtrl.Cart)
		customer.POST("/cart/:itemId", customerCtrl.AddToCart)
		customer.POST("/cart/:itemId/remove", customerCtrl.RemoveFromCart)
		customer.POST("/checkout", customerCtrl.Checkout)
	}

	router.NoRoute(func(c *gin.Context) {
		web.AbortWithError(c, http.StatusNotFound, "")
	})
}
