package models

type RegisterRequest struct {
	Username string `form:"username" binding:"required,min=3,max=64"`
	Password string `form:"password" binding:"required,min=6"`
	Name     string `form:"name" binding:"required,max=100"`
	Category string `form:"category" binding:"required,oneof=Seller Customer"`
	Email    string `form:"email" binding:"omitempty,email"`
}

type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type ProfileRequest struct {
	Name     string `form:"name" binding:"required,max=100"`
	Category string `form:"category" binding:"required,oneof=Seller Customer"`
}

type CreateItemRequest struct {
	ItemName     string  `form:"itemName" binding:"required,max=200"`
	Description  string  `form:"itemDescription" binding:"max=2000"`
	Price        float64 `form:"itemPrice" binding:"gte=0"`
	Quantity     int     `form:"itemQuantity" binding:"gte=0"`
	ItemCategory string  `form:"itemCategory" binding:"max=100"`
}

// UpdateItemRequest leaves a field unchanged when it is empty or absent.
type UpdateItemRequest struct {
	ItemName     string   `form:"itemName" binding:"max=200"`
	Description  string   `form:"itemDescription" binding:"max=2000"`
	Price        *float64 `form:"itemPrice" binding:"omitempty,gte=0"`
	Quantity     *int     `form:"itemQuantity" binding:"omitempty,gte=0"`
	ItemCategory string   `form:"itemCategory" binding:"max=100"`
}

// ImageUpload is the raw blob attached to an item on creation.
type ImageUpload struct {
	Data        []byte
	ContentType string
}
