package features

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/libs"
	"storefront/libs/payloadtest"
	"storefront/models"
	"storefront/repositories"
	"storefront/services"
)

const (
	storeID = models.DocID("7")
	device  = "device-feature-01"
)

type cartTestContext struct {
	cms       *payloadtest.Server
	carts     *services.CartService
	addresses *services.AddressService
	mirror    *services.DeviceMirror

	cart      *models.Cart
	err       error
	firstCart models.DocID
	saved     []models.Address
}

func (c *cartTestContext) reset() error {
	c.close()

	c.cms = payloadtest.NewServer()
	client, err := libs.NewPayloadClient(libs.PayloadConfig{BaseURL: c.cms.URL, Timeout: 2 * time.Second}, nil)
	if err != nil {
		return err
	}

	log := zap.NewNop()
	c.mirror = services.NewDeviceMirror(repositories.NewMemoryStore())
	c.carts = services.NewCartService(services.CartDeps{
		Carts:     repositories.NewCartRepository(client),
		Discounts: repositories.NewDiscountRepository(client),
		Products:  repositories.NewProductRepository(client, storeID),
		Mirror:    c.mirror,
		StoreID:   storeID,
		Log:       log,
	})
	c.addresses = services.NewAddressService(repositories.NewCustomerRepository(client), c.mirror, log)

	c.cart = nil
	c.err = nil
	c.firstCart = ""
	c.saved = nil
	return nil
}

func (c *cartTestContext) close() {
	if c.cms != nil {
		c.cms.Close()
		c.cms = nil
	}
}

func (c *cartTestContext) anEmptyDevice() error {
	return nil
}

func (c *cartTestContext) anActiveDiscount(kind, code string, value int) error {
	c.cms.AddDiscount(code, kind, float64(value), true, false, storeID)
	return nil
}

func (c *cartTestContext) iAddProductAtPrice(productID, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.cart, c.err = c.carts.AddItem(context.Background(), device, services.AddItemInput{
		ProductID: models.DocID(productID),
		Price:     &p,
	})
	if c.err != nil {
		return c.err
	}
	if c.firstCart == "" {
		c.firstCart = c.cart.ID
	}
	return nil
}

func (c *cartTestContext) iRemoveProduct(productID string) error {
	c.cart, c.err = c.carts.RemoveItem(context.Background(), device, models.DocID(productID), "")
	return c.err
}

func (c *cartTestContext) iApplyTheCode(code string) error {
	cart, err := c.carts.ApplyDiscountCode(context.Background(), device, code)
	c.err = err
	if err == nil {
		c.cart = cart
	}
	return nil
}

func (c *cartTestContext) theCMSDeletesMyCart() error {
	if c.cart == nil {
		return errors.New("no cart yet")
	}
	c.cms.DeleteCart(c.cart.ID)
	return nil
}

func (c *cartTestContext) theRequestFailsWith(kind string) error {
	var appErr *models.AppError
	if !errors.As(c.err, &appErr) {
		return fmt.Errorf("expected %s error, got %v", kind, c.err)
	}
	if appErr.Kind.String() != kind {
		return fmt.Errorf("expected %s error, got %s", kind, appErr.Kind)
	}
	return nil
}

func (c *cartTestContext) current() (*models.Cart, error) {
	cart, err := c.carts.GetCart(context.Background(), device)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	cart, err := c.current()
	if err != nil {
		return err
	}
	if len(cart.Items) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(cart.Items))
	}
	return nil
}

func (c *cartTestContext) productHasQuantity(productID string, qty int) error {
	cart, err := c.current()
	if err != nil {
		return err
	}
	for _, line := range cart.Items {
		if line.Matches(models.DocID(productID), "") {
			if line.Quantity != qty {
				return fmt.Errorf("expected quantity %d, got %d", qty, line.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("product %s not in cart", productID)
}

func (c *cartTestContext) productIsNotInTheCart(productID string) error {
	cart, err := c.current()
	if err != nil {
		return err
	}
	for _, line := range cart.Items {
		if line.Product == models.DocID(productID) {
			return fmt.Errorf("product %s still in cart with quantity %d", productID, line.Quantity)
		}
	}
	return nil
}

func (c *cartTestContext) theCartHasDiscounts(n int) error {
	cart, err := c.current()
	if err != nil {
		return err
	}
	if len(cart.AppliedDiscounts) != n {
		return fmt.Errorf("expected %d discounts, got %d", n, len(cart.AppliedDiscounts))
	}
	return nil
}

func (c *cartTestContext) theCartSubtotalIs(want string) error {
	cart, err := c.current()
	if err != nil {
		return err
	}
	return equalAmount("subtotal", cart.Subtotal, want)
}

func (c *cartTestContext) theCartTotalIs(want string) error {
	cart, err := c.current()
	if err != nil {
		return err
	}
	return equalAmount("total", cart.Total, want)
}

func equalAmount(name string, got decimal.Decimal, want string) error {
	w, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !got.Equal(w) {
		return fmt.Errorf("expected %s %s, got %s", name, w, got)
	}
	return nil
}

func (c *cartTestContext) myCartIDHasChanged() error {
	if c.cart == nil || c.cart.ID == c.firstCart {
		return fmt.Errorf("cart id still %s", c.firstCart)
	}
	return nil
}

func (c *cartTestContext) iSavedAddresses(n int) error {
	for i := 0; i < n; i++ {
		list, err := c.addresses.Add(context.Background(), device, models.Address{
			Name:       fmt.Sprintf("Address %d", i+1),
			Line1:      fmt.Sprintf("%d Main St", i+1),
			City:       "Springfield",
			State:      "IL",
			PostalCode: "62701",
			Country:    "US",
			Phone:      "555",
		})
		if err != nil {
			return err
		}
		c.saved = list
	}
	return nil
}

func (c *cartTestContext) iRemoveTheDefaultAddress() error {
	for _, a := range c.saved {
		if a.IsDefault {
			list, err := c.addresses.Remove(context.Background(), device, a.ID)
			c.saved = list
			return err
		}
	}
	return errors.New("no default address")
}

func (c *cartTestContext) addressesRemain(n int) error {
	list, err := c.addresses.List(context.Background(), device)
	if err != nil {
		return err
	}
	if len(list) != n {
		return fmt.Errorf("expected %d addresses, got %d", n, len(list))
	}
	return nil
}

func (c *cartTestContext) exactlyOneAddressIsTheDefault() error {
	list, err := c.addresses.List(context.Background(), device)
	if err != nil {
		return err
	}
	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		return fmt.Errorf("expected one default address, got %d", defaults)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.close()
		return ctx, nil
	})

	ctx.Step(`^an empty device$`, tc.anEmptyDevice)
	ctx.Step(`^an active (percentage|fixed) discount "([^"]*)" worth (\d+)$`, tc.anActiveDiscount)
	ctx.Step(`^I add product "([^"]*)" at price "([^"]*)"$`, tc.iAddProductAtPrice)
	ctx.Step(`^I remove product "([^"]*)"$`, tc.iRemoveProduct)
	ctx.Step(`^I apply the code "([^"]*)"$`, tc.iApplyTheCode)
	ctx.Step(`^the CMS deletes my cart$`, tc.theCMSDeletesMyCart)
	ctx.Step(`^I saved (\d+) addresses$`, tc.iSavedAddresses)
	ctx.Step(`^I remove the default address$`, tc.iRemoveTheDefaultAddress)

	ctx.Step(`^the request fails with "([^"]*)"$`, tc.theRequestFailsWith)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^product "([^"]*)" has quantity (\d+)$`, tc.productHasQuantity)
	ctx.Step(`^product "([^"]*)" is not in the cart$`, tc.productIsNotInTheCart)
	ctx.Step(`^the cart has (\d+) discounts$`, tc.theCartHasDiscounts)
	ctx.Step(`^the cart subtotal is "([^"]*)"$`, tc.theCartSubtotalIs)
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.theCartTotalIs)
	ctx.Step(`^my cart id has changed$`, tc.myCartIDHasChanged)
	ctx.Step(`^(\d+) addresses remain$`, tc.addressesRemain)
	ctx.Step(`^exactly one address is the default$`, tc.exactlyOneAddressIsTheDefault)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
