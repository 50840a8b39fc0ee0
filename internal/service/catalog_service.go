package service

import (
	"context"
	"fmt"

	"betteredible/internal/dto"
	"betteredible/internal/model"
	"betteredible/internal/pricing"
	"betteredible/internal/repository"

	"github.com/google/uuid"
)

// CatalogService manages product lines and products. Its one business rule:
// every product must expose pricing data shaped to match its line's declared
// pricing structure.
type CatalogService interface {
	CreateLine(ctx context.Context, req dto.CreateProductLineRequest) (*dto.ProductLineResponse, error)
	ListLines(ctx context.Context, includeInactive bool) ([]dto.ProductLineResponse, error)
	UpdateLine(ctx context.Context, id uuid.UUID, req dto.UpdateProductLineRequest) (*dto.ProductLineResponse, error)
	DeactivateLine(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, lineID uuid.UUID, includeInactive bool) ([]dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error

	ResolvePrice(ctx context.Context, productID uuid.UUID, requestedKey string) (*dto.ResolvePriceResponse, error)
}

type catalogService struct {
	lineRepo    repository.ProductLineRepository
	productRepo repository.ProductRepository
}

func NewCatalogService(lineRepo repository.ProductLineRepository, productRepo repository.ProductRepository) CatalogService {
	return &catalogService{lineRepo: lineRepo, productRepo: productRepo}
}

// ── Product lines ────────────────────────────────────────────────────────────

func (s *catalogService) CreateLine(ctx context.Context, req dto.CreateProductLineRequest) (*dto.ProductLineResponse, error) {
	switch req.PricingStructure {
	case model.PricingVariants:
		if len(req.VariantLabels) == 0 {
			return nil, fmt.Errorf("variant pricing requires at least one variant label")
		}
	case model.PricingMultiType:
		if len(req.TypeKeys) == 0 {
			return nil, fmt.Errorf("multi-type pricing requires at least one type key")
		}
	}

	line := &model.ProductLine{
		Name:             req.Name,
		DisplayRank:      req.DisplayRank,
		PricingStructure: req.PricingStructure,
		VariantLabels:    req.VariantLabels,
		TypeKeys:         req.TypeKeys,
		Active:           true,
	}
	if err := s.lineRepo.Create(ctx, line); err != nil {
		return nil, err
	}
	return lineToResponse(line), nil
}

func (s *catalogService) ListLines(ctx context.Context, includeInactive bool) ([]dto.ProductLineResponse, error) {
	lines, err := s.lineRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductLineResponse, 0, len(lines))
	for i := range lines {
		out = append(out, *lineToResponse(&lines[i]))
	}
	return out, nil
}

func (s *catalogService) UpdateLine(ctx context.Context, id uuid.UUID, req dto.UpdateProductLineRequest) (*dto.ProductLineResponse, error) {
	line, err := s.lineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product line", id.String())
	}
	if req.Name != "" {
		line.Name = req.Name
	}
	if req.DisplayRank != nil {
		line.DisplayRank = *req.DisplayRank
	}
	if req.VariantLabels != nil {
		line.VariantLabels = req.VariantLabels
	}
	if req.TypeKeys != nil {
		line.TypeKeys = req.TypeKeys
	}
	if err := s.lineRepo.Update(ctx, line); err != nil {
		return nil, err
	}
	return lineToResponse(line), nil
}

func (s *catalogService) DeactivateLine(ctx context.Context, id uuid.UUID) error {
	if _, err := s.lineRepo.FindByID(ctx, id); err != nil {
		return notFound("product line", id.String())
	}
	return s.lineRepo.SetActive(ctx, id, false)
}

// ── Products ─────────────────────────────────────────────────────────────────

// validateShape rejects pricing data that does not match the line's declared
// structure before it reaches the resolver.
func validateShape(line *model.ProductLine, variants []dto.ProductVariantRequest, typePrices []dto.ProductTypePriceRequest) error {
	switch line.PricingStructure {
	case model.PricingSimple:
		if len(variants) > 0 || len(typePrices) > 0 {
			return fmt.Errorf("line %q is simple-priced; variants and type prices are not accepted", line.Name)
		}
	case model.PricingVariants:
		if len(variants) == 0 {
			return fmt.Errorf("line %q requires variant prices", line.Name)
		}
		if len(typePrices) > 0 {
			return fmt.Errorf("line %q is variant-priced; type prices are not accepted", line.Name)
		}
	case model.PricingMultiType:
		if len(typePrices) == 0 {
			return fmt.Errorf("line %q requires type prices", line.Name)
		}
		if len(variants) > 0 {
			return fmt.Errorf("line %q is multi-type-priced; variants are not accepted", line.Name)
		}
	}
	return nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	lineID, err := uuid.Parse(req.ProductLineID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_line_id: %w", err)
	}
	line, err := s.lineRepo.FindByID(ctx, lineID)
	if err != nil {
		return nil, notFound("product line", req.ProductLineID)
	}
	if err := validateShape(line, req.Variants, req.TypePrices); err != nil {
		return nil, err
	}

	product := &model.Product{
		ProductLineID:   lineID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DiscountPrice:   req.DiscountPrice,
		LegacyBreakdown: req.LegacyBreakdown,
		Active:          true,
	}
	for _, v := range req.Variants {
		product.Variants = append(product.Variants, model.ProductVariant{
			Label:         v.Label,
			Price:         v.Price,
			DiscountPrice: v.DiscountPrice,
		})
	}
	for _, tp := range req.TypePrices {
		product.TypePrices = append(product.TypePrices, model.ProductTypePrice{
			TypeKey:       tp.TypeKey,
			Price:         tp.Price,
			DiscountPrice: tp.DiscountPrice,
		})
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product", id.String())
	}
	return productToResponse(product), nil
}

func (s *catalogService) ListProducts(ctx context.Context, lineID uuid.UUID, includeInactive bool) ([]dto.ProductResponse, error) {
	products, err := s.productRepo.ListByLine(ctx, lineID, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product", id.String())
	}
	if product.ProductLine != nil && (req.Variants != nil || req.TypePrices != nil) {
		if err := validateShape(product.ProductLine, req.Variants, req.TypePrices); err != nil {
			return nil, err
		}
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice = req.DiscountPrice
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	if req.Variants != nil {
		variants := make([]model.ProductVariant, 0, len(req.Variants))
		for _, v := range req.Variants {
			variants = append(variants, model.ProductVariant{
				ProductID:     product.ID,
				Label:         v.Label,
				Price:         v.Price,
				DiscountPrice: v.DiscountPrice,
			})
		}
		if err := s.productRepo.ReplaceVariants(ctx, product.ID, variants); err != nil {
			return nil, err
		}
		product.Variants = variants
	}
	if req.TypePrices != nil {
		prices := make([]model.ProductTypePrice, 0, len(req.TypePrices))
		for _, tp := range req.TypePrices {
			prices = append(prices, model.ProductTypePrice{
				ProductID:     product.ID,
				TypeKey:       tp.TypeKey,
				Price:         tp.Price,
				DiscountPrice: tp.DiscountPrice,
			})
		}
		if err := s.productRepo.ReplaceTypePrices(ctx, product.ID, prices); err != nil {
			return nil, err
		}
		product.TypePrices = prices
	}

	return productToResponse(product), nil
}

func (s *catalogService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return notFound("product", id.String())
	}
	return s.productRepo.SetActive(ctx, id, false)
}

// ResolvePrice runs the catalog resolver for a product and requested
// variant/type key.
func (s *catalogService) ResolvePrice(ctx context.Context, productID uuid.UUID, requestedKey string) (*dto.ResolvePriceResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFound("product", productID.String())
	}
	resolved := pricing.Resolve(product.PricingInput(), requestedKey)
	return &dto.ResolvePriceResponse{
		UnitPrice:      resolved.UnitPrice,
		DiscountPrice:  resolved.DiscountPrice,
		EffectivePrice: resolved.Effective(),
		Unresolved:     resolved.Unresolved,
	}, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func lineToResponse(l *model.ProductLine) *dto.ProductLineResponse {
	return &dto.ProductLineResponse{
		ID:               l.ID.String(),
		Name:             l.Name,
		DisplayRank:      l.DisplayRank,
		PricingStructure: l.PricingStructure,
		VariantLabels:    l.VariantLabels,
		TypeKeys:         l.TypeKeys,
		Active:           l.Active,
	}
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:            p.ID.String(),
		ProductLineID: p.ProductLineID.String(),
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Active:        p.Active,
	}
	for _, v := range p.Variants {
		resp.Variants = append(resp.Variants, dto.ProductVariantResponse{
			Label:         v.Label,
			Price:         v.Price,
			DiscountPrice: v.DiscountPrice,
		})
	}
	for _, tp := range p.TypePrices {
		resp.TypePrices = append(resp.TypePrices, dto.ProductTypePriceResponse{
			TypeKey:       tp.TypeKey,
			Price:         tp.Price,
			DiscountPrice: tp.DiscountPrice,
		})
	}
	return resp
}
