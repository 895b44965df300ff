package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/libs"
	"storefront/models"
)

// AuthService signs devices in and out against the CMS users collection and
// keeps the resulting session in the device mirror.
type AuthService struct {
	users     UserStore
	customers CustomerStore
	carts     *CartService
	mirror    *DeviceMirror
	now       func() time.Time
	log       *zap.Logger
}

func NewAuthService(users UserStore, customers CustomerStore, carts *CartService, mirror *DeviceMirror, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:     users,
		customers: customers,
		carts:     carts,
		mirror:    mirror,
		now:       time.Now,
		log:       log.Named("auth"),
	}
}

// Register creates the user and its customer record, then signs the device
// in. Linking the customer back onto the user is best effort.
func (s *AuthService) Register(ctx context.Context, device string, req models.RegisterRequest) (*models.Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.Create(ctx, email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}

	session, err := s.users.Login(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}
	authed := libs.WithAuthToken(ctx, session.Token)

	customer, err := s.customers.Create(authed, models.Customer{
		User:  user.ID,
		Name:  req.Name,
		Email: email,
		Phone: req.Phone,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.users.Update(authed, user.ID, map[string]interface{}{"customer": customer.ID}); err != nil {
		s.log.Warn("linking customer to user failed",
			zap.String("user", user.ID.String()),
			zap.String("customer", customer.ID.String()),
			zap.Error(err),
		)
	}
	session.User.Customer = customer.ID

	if err := s.signIn(ctx, device, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *AuthService) Login(ctx context.Context, device string, req models.LoginRequest) (*models.Session, error) {
	session, err := s.users.Login(ctx, strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		if models.KindOf(err) == models.KindValidation {
			return nil, models.NewUnauthorized("invalid email or password")
		}
		return nil, err
	}

	if session.User.Customer == "" {
		session.User.Customer = s.lookupCustomer(libs.WithAuthToken(ctx, session.Token), session.User.ID)
	}

	if err := s.signIn(ctx, device, session); err != nil {
		return nil, err
	}
	return session, nil
}

// signIn stores the session and hands the device's anonymous cart to the
// customer.
func (s *AuthService) signIn(ctx context.Context, device string, session *models.Session) error {
	if err := s.mirror.SaveSession(ctx, device, session); err != nil {
		return err
	}
	if s.carts != nil {
		authed := libs.WithAuthToken(ctx, session.Token)
		if err := s.carts.AttachCustomer(authed, device, session.User.Customer); err != nil {
			s.log.Warn("attaching cart failed", zap.String("device", device), zap.Error(err))
		}
	}
	s.log.Info("device signed in",
		zap.String("device", device),
		zap.String("user", session.User.ID.String()),
	)
	return nil
}

func (s *AuthService) lookupCustomer(ctx context.Context, userID models.DocID) models.DocID {
	customer, err := s.customers.FindByUser(ctx, userID)
	if err != nil {
		if !models.IsNotFound(err) {
			s.log.Warn("customer lookup failed", zap.String("user", userID.String()), zap.Error(err))
		}
		return ""
	}
	return customer.ID
}

// Session returns the device's session for bearer token. A token the device
// has not seen yet is checked with the CMS and adopted.
func (s *AuthService) Session(ctx context.Context, device, token string) (*models.Session, error) {
	stored, err := s.mirror.Session(ctx, device)
	if err != nil {
		return nil, err
	}

	if stored != nil && (token == "" || stored.Token == token) {
		if !stored.ExpiresAt.IsZero() && s.now().After(stored.ExpiresAt) {
			if err := s.mirror.ClearSession(ctx, device); err != nil {
				return nil, err
			}
			return nil, models.NewUnauthorized("session expired")
		}
		return stored, nil
	}
	if token == "" {
		return nil, models.NewUnauthorized("login required")
	}

	authed := libs.WithAuthToken(ctx, token)
	user, err := s.users.Me(authed)
	if err != nil {
		return nil, err
	}
	if user.Customer == "" {
		user.Customer = s.lookupCustomer(authed, user.ID)
	}

	session := &models.Session{Token: token, User: *user}
	if err := s.mirror.SaveSession(ctx, device, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout ends the CMS session and forgets it locally. The cart stays with
// the device.
func (s *AuthService) Logout(ctx context.Context, device string) error {
	session, err := s.mirror.Session(ctx, device)
	if err != nil {
		return err
	}
	if session != nil {
		if err := s.users.Logout(libs.WithAuthToken(ctx, session.Token)); err != nil {
			s.log.Warn("cms logout failed", zap.String("device", device), zap.Error(err))
		}
	}
	return s.mirror.ClearSession(ctx, device)
}
