package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/libs"
	"storefront/models"
)

type CartService struct {
	carts     CartStore
	discounts DiscountFinder
	products  ProductReader
	mirror    *DeviceMirror
	storeID   models.DocID
	locks     *keyLock
	log       *zap.Logger
}

type CartDeps struct {
	Carts     CartStore
	Discounts DiscountFinder
	Products  ProductReader
	Mirror    *DeviceMirror
	StoreID   models.DocID
	Log       *zap.Logger
}

func NewCartService(deps CartDeps) *CartService {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{
		carts:     deps.Carts,
		discounts: deps.Discounts,
		products:  deps.Products,
		mirror:    deps.Mirror,
		storeID:   deps.StoreID,
		locks:     newKeyLock(),
		log:       log.Named("cart"),
	}
}

type AddItemInput struct {
	ProductID models.DocID
	Variant   string
	Price     *decimal.Decimal
}

// lock serialises cart mutations of one device. A cart id is only ever
// cached under one device, so this is also the per-cart lock.
func (s *CartService) lock(device string) func() {
	return s.locks.Lock("cart:" + device)
}

// GetOrCreateCart returns the device's cart id, creating a cart on the CMS
// when none is cached or the cached one was deleted.
func (s *CartService) GetOrCreateCart(ctx context.Context, device string) (models.DocID, error) {
	ctx = s.authed(ctx, device)
	unlock := s.lock(device)
	defer unlock()

	cart, err := s.resolve(ctx, device)
	if err != nil {
		return "", err
	}
	return cart.ID, nil
}

func (s *CartService) resolve(ctx context.Context, device string) (*models.Cart, error) {
	cart, err := s.cached(ctx, device)
	if err != nil || cart != nil {
		return cart, err
	}

	customer, err := s.customerOf(ctx, device)
	if err != nil {
		return nil, err
	}

	cart, err = s.carts.Create(ctx, s.storeID, customer)
	if err != nil {
		return nil, err
	}
	if err := s.mirror.SetCartID(ctx, device, cart.ID); err != nil {
		return nil, err
	}

	s.log.Info("cart created",
		zap.String("device", device),
		zap.String("cart", cart.ID.String()),
		zap.String("customer", customer.String()),
	)
	return cart, nil
}

// cached fetches the cart behind the cached id. It returns nil, nil when
// there is no id or the CMS no longer has the cart.
func (s *CartService) cached(ctx context.Context, device string) (*models.Cart, error) {
	id, ok, err := s.mirror.CartID(ctx, device)
	if err != nil || !ok {
		return nil, err
	}

	cart, err := s.carts.FindByID(ctx, id)
	if err == nil {
		return cart, nil
	}
	if !models.IsNotFound(err) {
		return nil, err
	}

	s.log.Warn("cached cart is gone, dropping it",
		zap.String("device", device),
		zap.String("cart", id.String()),
	)
	if err := s.mirror.ClearCart(ctx, device); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *CartService) customerOf(ctx context.Context, device string) (models.DocID, error) {
	session, err := s.mirror.Session(ctx, device)
	if err != nil || session == nil {
		return "", err
	}
	return session.User.Customer, nil
}

// authed attaches the device's CMS token, if any, to ctx.
func (s *CartService) authed(ctx context.Context, device string) context.Context {
	session, err := s.mirror.Session(ctx, device)
	if err != nil || session == nil {
		return ctx
	}
	return libs.WithAuthToken(ctx, session.Token)
}

func (s *CartService) GetCart(ctx context.Context, device string) (*models.Cart, error) {
	ctx = s.authed(ctx, device)
	unlock := s.lock(device)
	defer unlock()

	cart, err := s.resolve(ctx, device)
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, device, cart)
}

// CachedItems returns the device's mirrored cart lines without a CMS call.
func (s *CartService) CachedItems(ctx context.Context, device string) ([]models.CartLine, error) {
	return s.mirror.CartItems(ctx, device)
}

func (s *CartService) AddItem(ctx context.Context, device string, in AddItemInput) (*models.Cart, error) {
	if in.ProductID == "" {
		return nil, models.NewValidation("product is required", models.FieldError{Path: "product_id", Message: "required"})
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, models.NewValidation("price must not be negative", models.FieldError{Path: "price", Message: "must be >= 0"})
	}

	ctx = s.authed(ctx, device)
	unlock := s.lock(device)
	defer unlock()

	cart, err := s.resolve(ctx, device)
	if err != nil {
		return nil, err
	}

	price := decimal.Zero
	if findLine(cart.Items, in.ProductID, in.Variant) < 0 {
		if price, err = s.priceOf(ctx, in); err != nil {
			return nil, err
		}
	}

	items := addLine(cart.Items, in.ProductID, in.Variant, price)
	return s.writeItems(ctx, device, cart.ID, items)
}

func (s *CartService) priceOf(ctx context.Context, in AddItemInput) (decimal.Decimal, error) {
	if in.Price != nil {
		return *in.Price, nil
	}
	if s.products == nil {
		return decimal.Zero, nil
	}
	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return decimal.Zero, err
	}
	return product.PriceFor(in.Variant), nil
}

func (s *CartService) RemoveItem(ctx context.Context, device string, productID models.DocID, variant string) (*models.Cart, error) {
	ctx = s.authed(ctx, device)
	unlock := s.lock(device)
	defer unlock()

	cart, err := s.resolve(ctx, device)
	if err != nil {
		return nil, err
	}

	items, changed := removeLine(cart.Items, productID, variant)
	if !changed {
		return s.settle(ctx, device, cart)
	}
	return s.writeItems(ctx, device, cart.ID, items)
}

func (s *CartService) SetQuantity(ctx context.Context, device string, productID models.DocID, variant string, qty int) (*models.Cart, error) {
	if productID == "" {
		return nil, models.NewValidation("product is required", models.FieldError{Path: "product_id", Message: "required"})
	}

	ctx = s.authed(ctx, device)
	unlock := s.lock(device)
	defer unlock()

	cart, err := s.resolve(ctx, device)
	if err != nil {
		return nil, err
	}

	price := decimal.Zero
	if qty > 0 && findLine(cart.Items, productID, variant) < 0 {
		if price, err = s.priceOf(ctx, AddItemInput{ProductID: productID, Variant: variant}); err != nil {
			return nil, err
		}
	}

	items, changed := setLineQuantity(cart.Items, productID, variant, qty, price)
	if !changed {
		return s.settle(ctx, device, cart)
	}
	return s.writeItems(ctx, device, cart.ID, items)
}

// ClearCart empties the cart on the CMS and forgets it locally. A device
// without a cart is left alone.
func (s *CartService) ClearCart(ctx context.Context, device string) error {
	ctx = s.authed(ctx, device)
	unlock := s.lock(device)
	defer unlock()

	id, ok, err := s.mirror.CartID(ctx, device)
	if err != nil {
		return err
	}
	if !ok {
		return s.mirror.ClearCart(ctx, device)
	}
	return s.clear(ctx, device, id)
}

func (s *CartService) clear(ctx context.Context, device string, id models.DocID) error {
	items := []models.CartLine{}
	ids := []models.DocID{}
	_, err := s.carts.Update(ctx, id, models.CartPatch{Items: &items, AppliedDiscounts: &ids})
	if err != nil && !models.IsNotFound(err) {
		return err
	}
	return s.mirror.ClearCart(ctx, device)
}

// Checkout hands the device's cart to place while holding the cart lock, and
// clears the cart once place succeeds. Lines added meanwhile wait for the
// lock and land in a fresh cart. A missing or empty cart is a Validation
// error. A failed clear is logged; the order already exists.
func (s *CartService) Checkout(ctx context.Context, device string, place func(*models.Cart) error) error {
	ctx = s.authed(ctx, device)
	unlock := s.lock(device)
	defer unlock()

	cart, err := s.cached(ctx, device)
	if err != nil {
		return err
	}
	if cart == nil || len(cart.Items) == 0 {
		return models.NewValidation("cart is empty", models.FieldError{Path: "items", Message: "at least one item is required"})
	}

	if err := place(withTotals(cart)); err != nil {
		return err
	}
	if err := s.clear(ctx, device, cart.ID); err != nil {
		s.log.Warn("clearing cart after checkout failed",
			zap.String("device", device),
			zap.String("cart", cart.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// AttachCustomer links the device's cart to customer after a login.
func (s *CartService) AttachCustomer(ctx context.Context, device string, customer models.DocID) error {
	if customer == "" {
		return nil
	}

	unlock := s.lock(device)
	defer unlock()

	cart, err := s.cached(ctx, device)
	if err != nil || cart == nil || cart.Customer == customer {
		return err
	}

	if _, err := s.carts.Update(ctx, cart.ID, models.CartPatch{Customer: &customer}); err != nil {
		return err
	}
	s.log.Info("cart attached to customer",
		zap.String("cart", cart.ID.String()),
		zap.String("customer", customer.String()),
	)
	return nil
}

func (s *CartService) ApplyDiscountCode(ctx context.Context, device, code string) (*models.Cart, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, models.NewInvalidCode(code)
	}

	ctx = s.authed(ctx, device)
	unlock := s.lock(device)
	defer unlock()

	cart, err := s.resolve(ctx, device)
	if err != nil {
		return nil, err
	}

	discount, err := s.discounts.FindRedeemable(ctx, s.storeID, code)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewInvalidCode(code)
		}
		return nil, err
	}

	// Same code twice yields two entries; stacking rules belong to the CMS.
	ids := append(discountIDs(cart.AppliedDiscounts), discount.ID)
	return s.writeDiscounts(ctx, device, cart.ID, ids)
}

func (s *CartService) RemoveDiscountCode(ctx context.Context, device, code string) (*models.Cart, error) {
	ctx = s.authed(ctx, device)
	unlock := s.lock(device)
	defer unlock()

	cart, err := s.resolve(ctx, device)
	if err != nil {
		return nil, err
	}

	kept := make([]models.DocID, 0, len(cart.AppliedDiscounts))
	for _, d := range cart.AppliedDiscounts {
		if d.Code != code {
			kept = append(kept, d.ID)
		}
	}
	if len(kept) == len(cart.AppliedDiscounts) {
		return s.settle(ctx, device, cart)
	}
	return s.writeDiscounts(ctx, device, cart.ID, kept)
}

func (s *CartService) ClearDiscounts(ctx context.Context, device string) (*models.Cart, error) {
	ctx = s.authed(ctx, device)
	unlock := s.lock(device)
	defer unlock()

	cart, err := s.resolve(ctx, device)
	if err != nil {
		return nil, err
	}
	if len(cart.AppliedDiscounts) == 0 {
		return s.settle(ctx, device, cart)
	}
	return s.writeDiscounts(ctx, device, cart.ID, []models.DocID{})
}

func (s *CartService) writeItems(ctx context.Context, device string, id models.DocID, items []models.CartLine) (*models.Cart, error) {
	updated, err := s.carts.Update(ctx, id, models.CartPatch{Items: &items})
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, device, updated)
}

func (s *CartService) writeDiscounts(ctx context.Context, device string, id models.DocID, ids []models.DocID) (*models.Cart, error) {
	updated, err := s.carts.Update(ctx, id, models.CartPatch{AppliedDiscounts: &ids})
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, device, updated)
}

// settle computes totals and refreshes the cart_items mirror.
func (s *CartService) settle(ctx context.Context, device string, cart *models.Cart) (*models.Cart, error) {
	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}
	if cart.AppliedDiscounts == nil {
		cart.AppliedDiscounts = []models.AppliedDiscount{}
	}
	if err := s.mirror.SaveCartItems(ctx, device, cart.Items); err != nil {
		return nil, err
	}
	return withTotals(cart), nil
}
