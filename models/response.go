package models

// NavLinks are the per-user navigation links every dashboard page renders.
type NavLinks struct {
	SellerHome     string
	SellerCustomer string
	ItemCreate     string
	ItemUpdate     string
	CustHome       string
	CustCategory   string
	CustCart       string
	Checkout       string
	Logout         string
}

func NewNavLinks(userID string) NavLinks {
	base := "/" + userID
	return NavLinks{
		SellerHome:     base + "/sellerDash",
		SellerCustomer: base + "/Customer",
		ItemCreate:     base + "/itemCreate",
		ItemUpdate:     base + "/itemUpdate",
		CustHome:       base + "/custDash",
		CustCategory:   base + "/category",
		CustCart:       base + "/cart",
		Checkout:       base + "/checkout",
		Logout:         "/logout",
	}
}

type ErrorPage struct {
	Status  int
	Title   string
	Message string
}
