package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"storefront/libs"
	"storefront/models"
)

type Profile struct {
	User     models.User      `json:"user"`
	Customer *models.Customer `json:"customer,omitempty"`
}

// UserService serves the signed-in user's own profile.
type UserService struct {
	users     UserStore
	customers CustomerStore
	mirror    *DeviceMirror
	log       *zap.Logger
}

func NewUserService(users UserStore, customers CustomerStore, mirror *DeviceMirror, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, customers: customers, mirror: mirror, log: log.Named("user")}
}

func (s *UserService) Me(ctx context.Context, device string, session *models.Session) (*Profile, error) {
	authed := libs.WithAuthToken(ctx, session.Token)

	user, err := s.users.Me(authed)
	if err != nil {
		return nil, err
	}
	if user.Customer == "" {
		user.Customer = session.User.Customer
	}

	profile := &Profile{User: *user}
	if user.Customer != "" {
		customer, err := s.customers.GetByID(authed, user.Customer)
		if err != nil && !models.IsNotFound(err) {
			return nil, err
		}
		profile.Customer = customer
	}

	refreshed := *session
	refreshed.User = *user
	if err := s.mirror.SaveSession(ctx, device, &refreshed); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *UserService) UpdateMe(ctx context.Context, device string, session *models.Session, req models.UpdateMeRequest) (*Profile, error) {
	authed := libs.WithAuthToken(ctx, session.Token)
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)

	if name != "" {
		if _, err := s.users.Update(authed, session.User.ID, map[string]interface{}{"name": name}); err != nil {
			return nil, err
		}
	}

	if customerID := session.User.Customer; customerID != "" {
		patch := map[string]interface{}{}
		if name != "" {
			patch["name"] = name
		}
		if phone != "" {
			patch["phone"] = phone
		}
		if len(patch) > 0 {
			if _, err := s.customers.Update(authed, customerID, patch); err != nil {
				return nil, err
			}
		}
	}

	return s.Me(ctx, device, session)
}

// DeleteMe removes the account and wipes the device mirror.
func (s *UserService) DeleteMe(ctx context.Context, device string, session *models.Session) error {
	if err := s.users.Delete(libs.WithAuthToken(ctx, session.Token), session.User.ID); err != nil {
		return err
	}
	s.log.Info("account deleted", zap.String("user", session.User.ID.String()))
	return s.mirror.ClearAll(ctx, device)
}
