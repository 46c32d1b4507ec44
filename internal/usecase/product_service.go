package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/storefront/backend/internal/domain"
	"github.com/storefront/backend/internal/metrics"
)

// ProductView is a configurable product prepared for display
type ProductView struct {
	SKU                 string                      `json:"sku"`
	Name                string                      `json:"name"`
	Brand               string                      `json:"brand,omitempty"`
	ConfigurableOptions []domain.ConfigurableOption `json:"configurable_options"`
	Variants            []domain.Variant            `json:"variants"`
}

// VariantResolution is the result of matching a selection against a product's variants
type VariantResolution struct {
	SKU     string              `json:"sku"`
	Index   domain.VariantIndex `json:"index"`
	Found   bool                `json:"found"`
	Variant *domain.Variant     `json:"variant,omitempty"`
}

// ResolutionRecorder receives variant resolution outcomes
type ResolutionRecorder interface {
	RecordVariantResolution(outcome string)
}

// ProductService serves product views and variant lookups from a catalog
type ProductService struct {
	repo     domain.CatalogRepository
	recorder ResolutionRecorder
	log      zerolog.Logger
}

// NewProductService creates a product service. recorder may be nil.
func NewProductService(repo domain.CatalogRepository, recorder ResolutionRecorder, log zerolog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		recorder: recorder,
		log:      log.With().Str("component", "product_service").Logger(),
	}
}

// GetProductView loads a product and enriches its variants with parameters.
// A product without a brand attribute is served with an empty brand.
func (s *ProductService) GetProductView(ctx context.Context, sku string) (*ProductView, error) {
	product, err := s.load(ctx, sku)
	if err != nil {
		return nil, err
	}

	brand, err := GetBrand(product.Attributes)
	if err != nil {
		s.log.Warn().Str("sku", sku).Msg("product has no brand attribute")
	}

	return &ProductView{
		SKU:                 product.SKU,
		Name:                product.Name,
		Brand:               brand,
		ConfigurableOptions: product.ConfigurableOptions,
		Variants:            GetVariantsWithParams(product.Variants, product.ConfigurableOptions),
	}, nil
}

// GetBrand returns the brand of a product
func (s *ProductService) GetBrand(ctx context.Context, sku string) (string, error) {
	product, err := s.load(ctx, sku)
	if err != nil {
		return "", err
	}
	return GetBrand(product.Attributes)
}

// ResolveVariant finds the first variant matching selection.
// No match is a successful resolution with Found set to false.
func (s *ProductService) ResolveVariant(ctx context.Context, sku string, selection domain.Selection) (*VariantResolution, error) {
	if len(selection) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	product, err := s.load(ctx, sku)
	if err != nil {
		s.record(metrics.OutcomeError)
		return nil, err
	}

	index, err := GetVariantIndex(product.Variants, selection)
	if err != nil {
		if errors.Is(err, domain.ErrMissingAttribute) {
			s.record(metrics.OutcomeMissingAttribute)
			s.log.Warn().Str("sku", sku).Err(err).Msg("selection references an unknown attribute")
		} else {
			s.record(metrics.OutcomeError)
		}
		return nil, err
	}

	resolution := &VariantResolution{SKU: product.SKU, Index: index}
	i, found := index.Get()
	if !found {
		s.record(metrics.OutcomeNoMatch)
		return resolution, nil
	}

	required := requiredParameterCodes(product.ConfigurableOptions)
	enriched := GetVariantWithParams(product.Variants[i], required)
	resolution.Found = true
	resolution.Variant = &enriched
	s.record(metrics.OutcomeMatched)

	s.log.Debug().Str("sku", sku).Int("index", i).Str("variant", enriched.Product.SKU).Msg("variant resolved")
	return resolution, nil
}

func (s *ProductService) load(ctx context.Context, sku string) (*domain.ConfigurableProduct, error) {
	if sku == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.GetProduct(ctx, sku)
}

func (s *ProductService) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordVariantResolution(outcome)
	}
}
