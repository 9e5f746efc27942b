package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace/models"
	"marketplace/services"
	"marketplace/web"
)

const formOverhead = 64 << 10

var errNotAnImage = errors.New("uploaded file is not an image")

type SellerController struct {
	catalog       *services.CatalogService
	users         *services.UserService
	maxUploadSize int64
}

func NewSellerController(catalog *services.CatalogService, users *services.UserService, maxUploadSize int64) *SellerController {
	return &SellerController{
		catalog:       catalog,
		users:         users,
		maxUploadSize: maxUploadSize,
	}
}

func (ctrl *SellerController) Dashboard(c *gin.Context) {
	user := currentUser(c)

	dash, err := ctrl.users.SellerDashboard(c.Request.Context(), user.ID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "sellerDash.html", page(user, "Dashboard", gin.H{
		"Name":  dash.Name,
		"Items": dash.Items,
	}))
}

// Customers lists every customer account, not only buyers of this seller.
func (ctrl *SellerController) Customers(c *gin.Context) {
	user := currentUser(c)

	customers, err := ctrl.users.ListCustomers(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "customer.html", page(user, "Customers", gin.H{
		"Customers": customers,
	}))
}

func (ctrl *SellerController) NewItem(c *gin.Context) {
	c.HTML(http.StatusOK, "itemCreate.html", page(currentUser(c), "New item", nil))
}

func (ctrl *SellerController) CreateItem(c *gin.Context) {
	user := currentUser(c)

	// The form fields get a little room on top of the image limit.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctrl.maxUploadSize+formOverhead)

	var req models.CreateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			web.AbortWithError(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Images may be at most %d bytes.", ctrl.maxUploadSize))
			return
		}
		web.AbortWithError(c, http.StatusBadRequest, "Check the item fields and try again.")
		return
	}

	image, err := ctrl.readImage(c)
	if err != nil {
		switch {
		case errors.Is(err, errNotAnImage):
			web.AbortWithError(c, http.StatusBadRequest, "Only image uploads are accepted.")
		default:
			web.AbortWithError(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Images may be at most %d bytes.", ctrl.maxUploadSize))
		}
		return
	}

	if _, err := ctrl.catalog.CreateItem(c.Request.Context(), user.ID, req, image); err != nil {
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, models.NewNavLinks(user.ID.String()).SellerHome)
}

// readImage returns the optional itemImage upload, or nil when none was sent.
func (ctrl *SellerController) readImage(c *gin.Context) (*models.ImageUpload, error) {
	file, err := c.FormFile("itemImage")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if file.Size > ctrl.maxUploadSize {
		return nil, fmt.Errorf("image is %d bytes", file.Size)
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, ctrl.maxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > ctrl.maxUploadSize {
		return nil, fmt.Errorf("image exceeds %d bytes", ctrl.maxUploadSize)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errNotAnImage
	}
	return &models.ImageUpload{Data: data, ContentType: contentType}, nil
}

func (ctrl *SellerController) EditItem(c *gin.Context) {
	user := currentUser(c)
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}

	item, err := ctrl.catalog.GetItem(c.Request.Context(), itemID)
	if err != nil {
		renderError(c, err)
		return
	}
	if item.CreatorID != user.ID.String() {
		renderError(c, models.ErrForbidden)
		return
	}

	c.HTML(http.StatusOK, "itemUpdate.html", page(user, "Edit item", gin.H{
		"Action": "/" + user.ID.String() + "/itemUpdate/" + item.ID.String(),
		"Item":   item,
	}))
}

func (ctrl *SellerController) UpdateItem(c *gin.Context) {
	user := currentUser(c)
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		web.AbortWithError(c, http.StatusBadRequest, "Check the item fields and try again.")
		return
	}
	// Blank numeric inputs bind as zero; treat them as "keep current".
	if strings.TrimSpace(c.PostForm("itemPrice")) == "" {
		req.Price = nil
	}
	if strings.TrimSpace(c.PostForm("itemQuantity")) == "" {
		req.Quantity = nil
	}

	if _, err := ctrl.catalog.UpdateItem(c.Request.Context(), user.ID, itemID, req); err != nil {
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, models.NewNavLinks(user.ID.String()).SellerHome)
}
