package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yoquet/backend/internal/domain/catalog"
	"github.com/yoquet/backend/internal/domain/media"
	"github.com/yoquet/backend/internal/domain/shared"
)

// FeaturedLimit caps the storefront's featured-products strip
const FeaturedLimit = 12

// ProductService handles product use cases
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	resolver   *media.Resolver
	logger     *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	resolver *media.Resolver,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		resolver:   resolver,
		logger:     logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Invalid category ID")
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(categoryID, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if err := product.SetStock(req.Stock); err != nil {
		return nil, err
	}
	product.SetFeatured(req.Featured)
	if req.ImageRef != "" {
		product.SetImageRef(req.ImageRef)
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
		zap.Bool("pending", product.IsPending()),
	)

	dto := toProductDTO(product, s.resolver)
	return &dto, nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toProductDTO(product, s.resolver)
	return &dto, nil
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductDTO], error) {
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(s.toDTOs(products), total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListByCategory returns products in a category
func (s *ProductService) ListByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]ProductDTO, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	products, err := s.products.FindByCategory(ctx, categoryID, filter)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(products), nil
}

// ListFeatured returns the featured products, capped at FeaturedLimit
func (s *ProductService) ListFeatured(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.products.FindFeatured(ctx, FeaturedLimit)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(products), nil
}

// ListPending returns the products awaiting pricing
func (s *ProductService) ListPending(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.products.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(products), nil
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.Featured != nil {
		product.SetFeatured(*req.Featured)
	}
	if req.ImageRef != nil {
		product.SetImageRef(*req.ImageRef)
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Invalid category ID")
		}
		if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
			return nil, err
		}
		if err := product.SetCategory(categoryID); err != nil {
			return nil, err
		}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	dto := toProductDTO(product, s.resolver)
	return &dto, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

// BatchUpdate applies partial updates to products in bulk, typically
// to complete the pending queue. Items that fail are reported
// individually; the rest still go through.
func (s *ProductService) BatchUpdate(ctx context.Context, req BatchUpdateRequest) (*BatchUpdateResult, error) {
	result := &BatchUpdateResult{}
	for _, item := range req.Items {
		if err := s.applyBatchItem(ctx, item); err != nil {
			s.logger.Warn("batch update failed",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, item.ProductID)
			continue
		}
		result.Updated++
	}
	return result, nil
}

func (s *ProductService) applyBatchItem(ctx context.Context, item BatchUpdateItem) error {
	id, err := uuid.Parse(item.ProductID)
	if err != nil {
		return shared.ErrInvalidInput
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if item.Price != nil {
		if err := product.SetPrice(*item.Price); err != nil {
			return err
		}
	}
	if item.Stock != nil {
		if err := product.SetStock(*item.Stock); err != nil {
			return err
		}
	}
	if item.CategoryID != "" {
		categoryID, err := uuid.Parse(item.CategoryID)
		if err != nil {
			return shared.ErrInvalidInput
		}
		if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
			return err
		}
		if err := product.SetCategory(categoryID); err != nil {
			return err
		}
	}
	return s.products.Save(ctx, product)
}

func (s *ProductService) toDTOs(products []catalog.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, toProductDTO(&products[i], s.resolver))
	}
	return dtos
}
