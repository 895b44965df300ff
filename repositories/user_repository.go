package repositories

import (
	"context"
	"net/http"
	"time"

	"storefront/libs"
	"storefront/models"
)

const collectionUsers = "users"

type UserRepository struct {
	client *libs.PayloadClient
}

func NewUserRepository(client *libs.PayloadClient) *UserRepository {
	return &UserRepository{client: client}
}

type loginResponse struct {
	Token string      `json:"token"`
	Exp   int64       `json:"exp"`
	User  models.User `json:"user"`
}

func (r *UserRepository) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var resp loginResponse
	body := map[string]string{"email": email, "password": password}
	if err := r.client.Do(ctx, http.MethodPost, "/users/login", nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, models.NewUnauthorized("invalid email or password")
	}
	return &models.Session{
		Token:     resp.Token,
		User:      resp.User,
		ExpiresAt: time.Unix(resp.Exp, 0).UTC(),
	}, nil
}

func (r *UserRepository) Create(ctx context.Context, email, password, name string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password, "name": name}

	var user models.User
	if err := r.client.Create(ctx, collectionUsers, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me resolves the user owning the token carried by ctx.
func (r *UserRepository) Me(ctx context.Context) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := r.client.Do(ctx, http.MethodGet, "/users/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, models.NewUnauthorized("session expired")
	}
	return resp.User, nil
}

func (r *UserRepository) Update(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.User, error) {
	var user models.User
	if err := r.client.UpdateByID(ctx, collectionUsers, id.String(), patch, 0, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id models.DocID) error {
	return r.client.DeleteByID(ctx, collectionUsers, id.String())
}

func (r *UserRepository) Logout(ctx context.Context) error {
	return r.client.Do(ctx, http.MethodPost, "/users/logout", nil, nil, nil)
}
