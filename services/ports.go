package services

import (
	"context"

	"storefront/libs"
	"storefront/models"
	"storefront/repositories"
)

type CartStore interface {
	FindByID(ctx context.Context, id models.DocID) (*models.Cart, error)
	Create(ctx context.Context, storeID, customerID models.DocID) (*models.Cart, error)
	Update(ctx context.Context, id models.DocID, patch models.CartPatch) (*models.Cart, error)
}

type DiscountFinder interface {
	FindRedeemable(ctx context.Context, storeID models.DocID, code string) (*models.Discount, error)
}

type ProductReader interface {
	GetByID(ctx context.Context, id models.DocID) (*models.Product, error)
}

type CatalogReader interface {
	ProductReader
	List(ctx context.Context, f repositories.ProductFilter) (*libs.PaginatedDocs[models.Product], error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetHomeLayout(ctx context.Context) (*models.HomeLayout, error)
	GetPrivacyPolicy(ctx context.Context) (*models.PrivacyPolicy, error)
}

type UserStore interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Create(ctx context.Context, email, password, name string) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)
	Update(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.User, error)
	Delete(ctx context.Context, id models.DocID) error
	Logout(ctx context.Context) error
}

type CustomerStore interface {
	GetByID(ctx context.Context, id models.DocID) (*models.Customer, error)
	FindByUser(ctx context.Context, userID models.DocID) (*models.Customer, error)
	Create(ctx context.Context, c models.Customer) (*models.Customer, error)
	Update(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.Customer, error)
	ReplaceAddresses(ctx context.Context, id models.DocID, addresses []models.Address) (*models.Customer, error)
	AppendOrder(ctx context.Context, id, orderID models.DocID) error
}

type OrderStore interface {
	Create(ctx context.Context, order models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id models.DocID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID models.DocID, page, limit int) (*libs.PaginatedDocs[models.Order], error)
}
