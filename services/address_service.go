package services

import (
	"context"

	"go.uber.org/zap"

	"storefront/libs"
	"storefront/models"
)

// AddressService manages the address book. With a logged-in session the
// customer's addresses on the CMS are the truth and the device copy is a
// cache; without one the device copy is all there is.
type AddressService struct {
	customers CustomerStore
	mirror    *DeviceMirror
	locks     *keyLock
	log       *zap.Logger
}

func NewAddressService(customers CustomerStore, mirror *DeviceMirror, log *zap.Logger) *AddressService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AddressService{
		customers: customers,
		mirror:    mirror,
		locks:     newKeyLock(),
		log:       log.Named("addresses"),
	}
}

type addressOwner struct {
	customer models.DocID
	ctx      context.Context
}

func (s *AddressService) owner(ctx context.Context, device string) (*addressOwner, error) {
	session, err := s.mirror.Session(ctx, device)
	if err != nil {
		return nil, err
	}
	if session == nil || session.User.Customer == "" || s.customers == nil {
		return nil, nil
	}
	return &addressOwner{
		customer: session.User.Customer,
		ctx:      libs.WithAuthToken(ctx, session.Token),
	}, nil
}

// List returns the address book. For a customer the CMS copy is fetched and
// cached; if the CMS is unreachable the cached copy is served.
func (s *AddressService) List(ctx context.Context, device string) ([]models.Address, error) {
	owner, err := s.owner(ctx, device)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		list, err := s.mirror.Addresses(ctx, device)
		if err != nil {
			return nil, err
		}
		return normalizeDefault(list), nil
	}

	customer, err := s.customers.GetByID(owner.ctx, owner.customer)
	if err != nil {
		if models.KindOf(err) == models.KindNetwork {
			s.log.Warn("serving cached addresses", zap.String("device", device), zap.Error(err))
			return s.mirror.Addresses(ctx, device)
		}
		return nil, err
	}

	addrs := customer.Addresses
	if addrs == nil {
		addrs = []models.Address{}
	}
	return addrs, s.mirror.SaveAddresses(ctx, device, addrs)
}

func (s *AddressService) Add(ctx context.Context, device string, addr models.Address) ([]models.Address, error) {
	return s.mutate(ctx, device, func(list []models.Address, limit int) ([]models.Address, error) {
		return addAddress(list, addr, limit)
	})
}

func (s *AddressService) Remove(ctx context.Context, device, id string) ([]models.Address, error) {
	return s.mutate(ctx, device, func(list []models.Address, _ int) ([]models.Address, error) {
		return removeAddress(list, id)
	})
}

func (s *AddressService) SetDefault(ctx context.Context, device, id string) ([]models.Address, error) {
	return s.mutate(ctx, device, func(list []models.Address, _ int) ([]models.Address, error) {
		return setDefaultAddress(list, id)
	})
}

func (s *AddressService) Clear(ctx context.Context, device string) error {
	unlock := s.locks.Lock(device)
	defer unlock()
	return s.mirror.ClearAddresses(ctx, device)
}

func (s *AddressService) mutate(ctx context.Context, device string, apply func([]models.Address, int) ([]models.Address, error)) ([]models.Address, error) {
	unlock := s.locks.Lock(device)
	defer unlock()

	owner, err := s.owner(ctx, device)
	if err != nil {
		return nil, err
	}

	if owner == nil {
		list, err := s.mirror.Addresses(ctx, device)
		if err != nil {
			return nil, err
		}
		next, err := apply(normalizeDefault(list), MaxLocalAddresses)
		if err != nil {
			return nil, err
		}
		return next, s.mirror.SaveAddresses(ctx, device, next)
	}

	customer, err := s.customers.GetByID(owner.ctx, owner.customer)
	if err != nil {
		return nil, err
	}
	next, err := apply(normalizeDefault(customer.Addresses), 0)
	if err != nil {
		return nil, err
	}
	updated, err := s.customers.ReplaceAddresses(owner.ctx, owner.customer, next)
	if err != nil {
		return nil, err
	}

	addrs := updated.Addresses
	if addrs == nil {
		addrs = []models.Address{}
	}
	return addrs, s.mirror.SaveAddresses(ctx, device, addrs)
}
