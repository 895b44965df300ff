// Package payloadtest runs an in-process stand-in for the PayloadCMS REST
// API, holding collections in memory.
package payloadtest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"storefront/models"
	"storefront/utils"
)

// Secret signs the tokens the server issues.
const Secret = "payload-test-secret"

type cartDoc struct {
	ID               models.DocID
	Store            models.DocID
	Customer         models.DocID
	Items            []models.CartLine
	AppliedDiscounts []models.DocID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type userDoc struct {
	User     models.User
	Password string
}

// Server is a fake CMS. Its exported maps may be seeded directly before
// requests are made; use Lock/Unlock when touching them concurrently.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	nextID int

	Carts       map[models.DocID]*cartDoc
	Discounts   []models.Discount
	Products    map[models.DocID]models.Product
	Categories  []models.Category
	HomeLayouts []models.HomeLayout
	Privacy     *models.PrivacyPolicy
	Customers   map[models.DocID]*models.Customer
	Orders      map[models.DocID]*models.Order
	Users       map[models.DocID]*userDoc
	Tokens      map[string]models.DocID

	// Fail, when set, answers every /api request with this status.
	Fail int

	calls       []string
	authedCalls []string
}

func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		nextID:    100,
		Carts:     map[models.DocID]*cartDoc{},
		Products:  map[models.DocID]models.Product{},
		Customers: map[models.DocID]*models.Customer{},
		Orders:    map[models.DocID]*models.Order{},
		Users:     map[models.DocID]*userDoc{},
		Tokens:    map[string]models.DocID{},
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) Lock()   { s.mu.Lock() }
func (s *Server) Unlock() { s.mu.Unlock() }

// Calls lists "METHOD /path" of every request served so far.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CountCalls counts served requests with the given method and path prefix.
func (s *Server) CountCalls(method, prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.HasPrefix(c, method+" "+prefix) {
			n++
		}
	}
	return n
}

// CountAuthedCalls is CountCalls limited to requests that carried a known
// token.
func (s *Server) CountAuthedCalls(method, prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.authedCalls {
		if strings.HasPrefix(c, method+" "+prefix) {
			n++
		}
	}
	return n
}

func (s *Server) newID() models.DocID {
	s.nextID++
	return models.DocID(strconv.Itoa(s.nextID))
}

func (s *Server) AddDiscount(code, kind string, value float64, active, automatic bool, store models.DocID) models.Discount {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := models.Discount{
		ID:          s.newID(),
		Code:        code,
		Active:      active,
		IsAutomatic: automatic,
		Store:       store,
		Type:        kind,
		Value:       decimal.NewFromFloat(value),
	}
	s.Discounts = append(s.Discounts, d)
	return d
}

func (s *Server) AddProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.newID()
	}
	s.Products[p.ID] = p
	return p
}

// AddUser registers a user with a customer record and returns a valid token.
func (s *Server) AddUser(email, password, name string) (models.User, models.Customer, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := models.User{ID: s.newID(), Email: email, Name: name}
	customer := &models.Customer{ID: s.newID(), User: user.ID, Name: name, Email: email, Addresses: []models.Address{}}
	user.Customer = customer.ID

	s.Users[user.ID] = &userDoc{User: user, Password: password}
	s.Customers[customer.ID] = customer
	token := s.issueToken(user)
	return user, *customer, token
}

// issueToken signs a users-collection token with Secret and registers it.
func (s *Server) issueToken(u models.User) string {
	token, err := utils.GenerateToken(utils.Claims{
		ID:         u.ID,
		Collection: "users",
		Email:      u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(2 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}, Secret)
	if err != nil {
		token = "token-" + u.ID.String()
	}
	s.Tokens[token] = u.ID
	return token
}

func (s *Server) DeleteCart(id models.DocID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Carts, id)
}

// Cart returns the stored cart with populated discounts.
func (s *Server) Cart(id models.DocID) (models.Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.Carts[id]
	if !ok {
		return models.Cart{}, false
	}
	return s.render(doc, 1), true
}

func (s *Server) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Carts)
}

func (s *Server) render(doc *cartDoc, depth int) models.Cart {
	cart := models.Cart{
		ID:               doc.ID,
		Store:            doc.Store,
		Customer:         doc.Customer,
		Items:            append([]models.CartLine{}, doc.Items...),
		AppliedDiscounts: []models.AppliedDiscount{},
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
	for _, id := range doc.AppliedDiscounts {
		applied := models.AppliedDiscount{ID: id}
		if depth > 0 {
			for _, d := range s.Discounts {
				if d.ID == id {
					applied = d.Applied()
				}
			}
		}
		cart.AppliedDiscounts = append(cart.AppliedDiscounts, applied)
	}
	return cart
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(s.record)

	api := r.Group("/api")
	api.GET("/cart/:id", s.getCart)
	api.POST("/cart", s.createCart)
	api.PATCH("/cart/:id", s.updateCart)

	api.GET("/discounts", s.findDiscounts)

	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)
	api.GET("/categories", s.listCategories)
	api.GET("/home_layouts", s.findHomeLayouts)
	api.GET("/globals/privacy-policies", s.getPrivacy)

	api.POST("/users", s.createUser)
	api.POST("/users/login", s.login)
	api.POST("/users/logout", s.logout)
	api.GET("/users/me", s.me)
	api.PATCH("/users/:id", s.authed(s.updateUser))
	api.DELETE("/users/:id", s.authed(s.deleteUser))

	api.GET("/customers", s.authed(s.findCustomers))
	api.GET("/customers/:id", s.authed(s.getCustomer))
	api.POST("/customers", s.authed(s.createCustomer))
	api.PATCH("/customers/:id", s.authed(s.updateCustomer))

	api.GET("/orders", s.authed(s.findOrders))
	api.GET("/orders/:id", s.authed(s.getOrder))
	api.POST("/orders", s.authed(s.createOrder))
	return r
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	call := c.Request.Method + " " + c.Request.URL.Path
	s.calls = append(s.calls, call)
	if _, ok := s.currentUser(c); ok {
		s.authedCalls = append(s.authedCalls, call)
	}
	fail := s.Fail
	s.mu.Unlock()

	if fail != 0 {
		c.AbortWithStatusJSON(fail, errorBody("forced failure"))
		return
	}
	c.Next()
}

func errorBody(message string, fields ...models.FieldError) gin.H {
	e := gin.H{"name": "APIError", "message": message}
	if len(fields) > 0 {
		e["name"] = "ValidationError"
		e["data"] = gin.H{"errors": fields}
	}
	return gin.H{"errors": []gin.H{e}}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorBody("The requested resource was not found."))
}

func paginated[T any](docs []T, page, limit int) gin.H {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	total := len(docs)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	pages := (total + limit - 1) / limit
	return gin.H{
		"docs":        docs[start:end],
		"totalDocs":   total,
		"limit":       limit,
		"page":        page,
		"totalPages":  pages,
		"hasNextPage": page < pages,
	}
}

func where(c *gin.Context, field string) (string, bool) {
	return c.GetQuery("where[" + field + "][equals]")
}

func queryInt(c *gin.Context, key string, def int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil {
		return n
	}
	return def
}

func (s *Server) getCart(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.Carts[models.DocID(c.Param("id"))]
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, s.render(doc, queryInt(c, "depth", 1)))
}

type cartBody struct {
	Store            *models.DocID      `json:"store"`
	Customer         *models.DocID      `json:"customer"`
	Items            *[]models.CartLine `json:"items"`
	AppliedDiscounts *[]models.DocID    `json:"appliedDiscounts"`
}

func (s *Server) createCart(c *gin.Context) {
	var body cartBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if body.Store == nil || *body.Store == "" {
		c.JSON(http.StatusBadRequest, errorBody("The following field is invalid: store",
			models.FieldError{Path: "store", Message: "This field is required."}))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	doc := &cartDoc{ID: s.newID(), Store: *body.Store, Items: []models.CartLine{}, CreatedAt: now, UpdatedAt: now}
	if body.Customer != nil {
		doc.Customer = *body.Customer
	}
	if body.Items != nil {
		doc.Items = *body.Items
	}
	if body.AppliedDiscounts != nil {
		doc.AppliedDiscounts = *body.AppliedDiscounts
	}
	s.Carts[doc.ID] = doc
	c.JSON(http.StatusCreated, gin.H{"doc": s.render(doc, 0), "message": "Cart successfully created."})
}

func (s *Server) updateCart(c *gin.Context) {
	var body cartBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.Carts[models.DocID(c.Param("id"))]
	if !ok {
		notFound(c)
		return
	}
	for _, line := range derefLines(body.Items) {
		if line.Quantity < 1 {
			c.JSON(http.StatusBadRequest, errorBody("The following field is invalid: items",
				models.FieldError{Path: "items.quantity", Message: "must be at least 1"}))
			return
		}
	}

	if body.Items != nil {
		doc.Items = *body.Items
	}
	if body.AppliedDiscounts != nil {
		doc.AppliedDiscounts = *body.AppliedDiscounts
	}
	if body.Customer != nil {
		doc.Customer = *body.Customer
	}
	doc.UpdatedAt = time.Now().UTC()
	c.JSON(http.StatusOK, gin.H{"doc": s.render(doc, queryInt(c, "depth", 1)), "message": "Updated successfully."})
}

func derefLines(p *[]models.CartLine) []models.CartLine {
	if p == nil {
		return nil
	}
	return *p
}

func (s *Server) findDiscounts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := []models.Discount{}
	for _, d := range s.Discounts {
		if v, ok := where(c, "code"); ok && v != d.Code {
			continue
		}
		if v, ok := where(c, "active"); ok && v != strconv.FormatBool(d.Active) {
			continue
		}
		if v, ok := where(c, "isAutomatic"); ok && v != strconv.FormatBool(d.IsAutomatic) {
			continue
		}
		if v, ok := where(c, "store"); ok && v != d.Store.String() {
			continue
		}
		matches = append(matches, d)
	}
	c.JSON(http.StatusOK, paginated(matches, queryInt(c, "page", 1), queryInt(c, "limit", 10)))
}

func (s *Server) listProducts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := []models.Product{}
	for _, p := range s.Products {
		if v, ok := where(c, "store"); ok && v != p.Store.String() {
			continue
		}
		if v, ok := where(c, "category"); ok && v != p.Category.String() {
			continue
		}
		if v := c.Query("where[title][like]"); v != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(v)) {
			continue
		}
		matches = append(matches, p)
	}
	sortProducts(matches)
	c.JSON(http.StatusOK, paginated(matches, queryInt(c, "page", 1), queryInt(c, "limit", 10)))
}

func sortProducts(ps []models.Product) {
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && ps[j].ID < ps[j-1].ID; j-- {
			ps[j], ps[j-1] = ps[j-1], ps[j]
		}
	}
}

func (s *Server) getProduct(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.Products[models.DocID(c.Param("id"))]
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) listCategories(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, paginated(append([]models.Category{}, s.Categories...), 1, queryInt(c, "limit", 10)))
}

func (s *Server) findHomeLayouts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := []models.HomeLayout{}
	for _, l := range s.HomeLayouts {
		if v, ok := where(c, "store"); ok && v != l.Store.String() {
			continue
		}
		matches = append(matches, l)
	}
	c.JSON(http.StatusOK, paginated(matches, 1, queryInt(c, "limit", 10)))
}

func (s *Server) getPrivacy(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Privacy == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, s.Privacy)
}

func (s *Server) currentUser(c *gin.Context) (*userDoc, bool) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "JWT ")
	id, ok := s.Tokens[token]
	if !ok {
		return nil, false
	}
	u, ok := s.Users[id]
	return u, ok
}

// authed rejects requests without a known token, as collection access
// control would.
func (s *Server) authed(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		_, ok := s.currentUser(c)
		s.mu.Unlock()
		if !ok {
			c.JSON(http.StatusForbidden, errorBody("You are not allowed to perform this action."))
			return
		}
		h(c)
	}
}

func (s *Server) createUser(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.Users {
		if u.User.Email == body.Email {
			c.JSON(http.StatusBadRequest, errorBody("The following field is invalid: email",
				models.FieldError{Path: "email", Message: "A user with the given email is already registered."}))
			return
		}
	}
	user := models.User{ID: s.newID(), Email: body.Email, Name: body.Name}
	s.Users[user.ID] = &userDoc{User: user, Password: body.Password}
	c.JSON(http.StatusCreated, gin.H{"doc": user, "message": "Successfully created new User."})
}

func (s *Server) login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = c.ShouldBindJSON(&body)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.Users {
		if u.User.Email == body.Email && u.Password == body.Password {
			token := s.issueToken(u.User)
			c.JSON(http.StatusOK, gin.H{
				"message": "Auth Passed",
				"token":   token,
				"exp":     time.Now().Add(2 * time.Hour).Unix(),
				"user":    u.User,
			})
			return
		}
	}
	c.JSON(http.StatusUnauthorized, errorBody("The email or password provided is incorrect."))
}

func (s *Server) logout(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Tokens, strings.TrimPrefix(c.GetHeader("Authorization"), "JWT "))
	c.JSON(http.StatusOK, gin.H{"message": "You have been logged out successfully."})
}

func (s *Server) me(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.User})
}

func (s *Server) updateUser(c *gin.Context) {
	var body struct {
		Name     *string       `json:"name"`
		Customer *models.DocID `json:"customer"`
	}
	_ = c.ShouldBindJSON(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[models.DocID(c.Param("id"))]
	if !ok {
		notFound(c)
		return
	}
	if body.Name != nil {
		u.User.Name = *body.Name
	}
	if body.Customer != nil {
		u.User.Customer = *body.Customer
	}
	c.JSON(http.StatusOK, gin.H{"doc": u.User})
}

func (s *Server) deleteUser(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := models.DocID(c.Param("id"))
	if _, ok := s.Users[id]; !ok {
		notFound(c)
		return
	}
	delete(s.Users, id)
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) findCustomers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := []models.Customer{}
	for _, cu := range s.Customers {
		if v, ok := where(c, "user"); ok && v != cu.User.String() {
			continue
		}
		matches = append(matches, *cu)
	}
	c.JSON(http.StatusOK, paginated(matches, 1, queryInt(c, "limit", 10)))
}

func (s *Server) getCustomer(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cu, ok := s.Customers[models.DocID(c.Param("id"))]
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, cu)
}

func (s *Server) createCustomer(c *gin.Context) {
	var body models.Customer
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	body.ID = s.newID()
	if body.Addresses == nil {
		body.Addresses = []models.Address{}
	}
	s.Customers[body.ID] = &body
	c.JSON(http.StatusCreated, gin.H{"doc": body})
}

func (s *Server) updateCustomer(c *gin.Context) {
	var body struct {
		Name      *string           `json:"name"`
		Phone     *string           `json:"phone"`
		Addresses *[]models.Address `json:"addresses"`
		Orders    *[]models.DocID   `json:"orders"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cu, ok := s.Customers[models.DocID(c.Param("id"))]
	if !ok {
		notFound(c)
		return
	}
	if body.Name != nil {
		cu.Name = *body.Name
	}
	if body.Phone != nil {
		cu.Phone = *body.Phone
	}
	if body.Addresses != nil {
		cu.Addresses = *body.Addresses
	}
	if body.Orders != nil {
		cu.Orders = *body.Orders
	}
	c.JSON(http.StatusOK, gin.H{"doc": cu})
}

func (s *Server) findOrders(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := []models.Order{}
	for _, o := range s.Orders {
		if v, ok := where(c, "customer"); ok && v != o.Customer.String() {
			continue
		}
		matches = append(matches, *o)
	}
	c.JSON(http.StatusOK, paginated(matches, queryInt(c, "page", 1), queryInt(c, "limit", 10)))
}

func (s *Server) getOrder(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[models.DocID(c.Param("id"))]
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) createOrder(c *gin.Context) {
	var body models.Order
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	body.ID = s.newID()
	body.OrderNumber = "ORD-" + body.ID.String()
	body.CreatedAt = now
	body.UpdatedAt = now
	s.Orders[body.ID] = &body
	c.JSON(http.StatusCreated, gin.H{"doc": body})
}
