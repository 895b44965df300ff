package repositories

import (
	"context"

	"storefront/libs"
	"storefront/models"
)

const collectionCustomers = "customers"

type CustomerRepository struct {
	client *libs.PayloadClient
}

func NewCustomerRepository(client *libs.PayloadClient) *CustomerRepository {
	return &CustomerRepository{client: client}
}

func (r *CustomerRepository) GetByID(ctx context.Context, id models.DocID) (*models.Customer, error) {
	var c models.Customer
	if err := r.client.FindByID(ctx, collectionCustomers, id.String(), 0, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) FindByUser(ctx context.Context, userID models.DocID) (*models.Customer, error) {
	q := libs.NewQuery().Equals("user", userID).Limit(1).Depth(0)

	var page libs.PaginatedDocs[models.Customer]
	if err := r.client.Find(ctx, collectionCustomers, q, &page); err != nil {
		return nil, err
	}
	if len(page.Docs) == 0 {
		return nil, models.NewNotFound("customer not found")
	}
	return &page.Docs[0], nil
}

func (r *CustomerRepository) Create(ctx context.Context, c models.Customer) (*models.Customer, error) {
	body := map[string]interface{}{
		"user":      c.User,
		"name":      c.Name,
		"email":     c.Email,
		"phone":     c.Phone,
		"addresses": []models.Address{},
	}

	var created models.Customer
	if err := r.client.Create(ctx, collectionCustomers, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *CustomerRepository) Update(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.Customer, error) {
	var c models.Customer
	if err := r.client.UpdateByID(ctx, collectionCustomers, id.String(), patch, 0, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) ReplaceAddresses(ctx context.Context, id models.DocID, addresses []models.Address) (*models.Customer, error) {
	return r.Update(ctx, id, map[string]interface{}{"addresses": addresses})
}

// AppendOrder links an order to the customer with a read-modify-write of the
// orders array.
func (r *CustomerRepository) AppendOrder(ctx context.Context, id, orderID models.DocID) error {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	orders := append(append([]models.DocID(nil), c.Orders...), orderID)
	_, err = r.Update(ctx, id, map[string]interface{}{"orders": orders})
	return err
}
