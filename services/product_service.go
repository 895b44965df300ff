package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/models"
	"storefront/repositories"
)

// ProductService serves the read-only catalog, optionally through a TTL
// cache in the local store.
type ProductService struct {
	catalog   CatalogReader
	cache     repositories.LocalStore
	ttl       time.Duration
	mediaBase string
	log       *zap.Logger
}

// NewProductService builds the catalog. Relative media URLs the CMS returns
// are resolved against storageURL when it is set.
func NewProductService(catalog CatalogReader, cache repositories.LocalStore, ttl time.Duration, storageURL string, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		cache = nil
	}
	return &ProductService{
		catalog:   catalog,
		cache:     cache,
		ttl:       ttl,
		mediaBase: strings.TrimSuffix(storageURL, "/"),
		log:       log.Named("catalog"),
	}
}

// mediaURL makes a relative upload path absolute under the storage URL.
func (s *ProductService) mediaURL(raw string) string {
	if s.mediaBase == "" || raw == "" {
		return raw
	}
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		return raw
	}
	return s.mediaBase + "/" + strings.TrimPrefix(raw, "/")
}

func (s *ProductService) resolveProduct(p *models.Product) {
	for i := range p.Images {
		p.Images[i].URL = s.mediaURL(p.Images[i].URL)
	}
}

// cached loads key into out, or fills it with fetch and stores the result.
// Cache failures only cost a CMS round trip.
func (s *ProductService) cached(ctx context.Context, key string, out interface{}, fetch func() (interface{}, error)) error {
	key = "catalog:" + key
	if s.cache != nil {
		found, err := repositories.LoadJSON(ctx, s.cache, key, out)
		if err == nil && found {
			return nil
		}
		if err != nil {
			s.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err := fetch()
	if err != nil {
		return err
	}
	if s.cache != nil {
		if err := repositories.SaveJSON(ctx, s.cache, key, v, s.ttl); err != nil {
			s.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return assign(v, out)
}

func (s *ProductService) GetAllProducts(ctx context.Context, f repositories.ProductFilter) (*models.PaginationResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	var products struct {
		Docs      []models.Product `json:"docs"`
		TotalDocs int              `json:"totalDocs"`
	}
	key := fmt.Sprintf("products:%d:%d:%s:%s", f.Page, f.Limit, f.Category, f.Search)
	err := s.cached(ctx, key, &products, func() (interface{}, error) {
		return s.catalog.List(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	if products.Docs == nil {
		products.Docs = []models.Product{}
	}
	for i := range products.Docs {
		s.resolveProduct(&products.Docs[i])
	}

	totalPages := int(math.Ceil(float64(products.TotalDocs) / float64(f.Limit)))

	return &models.PaginationResponse{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    products.Docs,
		Meta: models.MetaData{
			Page:       f.Page,
			Limit:      f.Limit,
			TotalItems: products.TotalDocs,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id models.DocID) (*models.Product, error) {
	var product models.Product
	err := s.cached(ctx, "product:"+id.String(), &product, func() (interface{}, error) {
		return s.catalog.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	s.resolveProduct(&product)
	return &product, nil
}

func (s *ProductService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.cached(ctx, "categories", &categories, func() (interface{}, error) {
		return s.catalog.ListCategories(ctx)
	})
	if categories == nil {
		categories = []models.Category{}
	}
	for i := range categories {
		if categories[i].Image != nil {
			categories[i].Image.URL = s.mediaURL(categories[i].Image.URL)
		}
	}
	return categories, err
}

func (s *ProductService) GetHomeLayout(ctx context.Context) (*models.HomeLayout, error) {
	var layout models.HomeLayout
	err := s.cached(ctx, "home", &layout, func() (interface{}, error) {
		return s.catalog.GetHomeLayout(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

func (s *ProductService) GetPrivacyPolicy(ctx context.Context) (*models.PrivacyPolicy, error) {
	var policy models.PrivacyPolicy
	err := s.cached(ctx, "privacy-policy", &policy, func() (interface{}, error) {
		return s.catalog.GetPrivacyPolicy(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// assign copies a fetched value into out through its JSON form, the same
// path a cache hit takes.
func assign(v, out interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
