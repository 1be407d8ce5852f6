package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yoquet/backend/internal/domain/catalog"
	"github.com/yoquet/backend/internal/domain/media"
	"github.com/yoquet/backend/internal/domain/shared"
	"github.com/yoquet/backend/internal/infrastructure/storage"
)

// ExportResult describes a finished catalog export
type ExportResult struct {
	Key      string `json:"key"`
	Products int    `json:"products"`
}

// ExportService dumps the full catalog as CSV into object storage so the
// shop owner can review prices in a spreadsheet.
type ExportService struct {
	products catalog.ProductRepository
	resolver *media.Resolver
	store    storage.ObjectStorage
	logger   *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(
	products catalog.ProductRepository,
	resolver *media.Resolver,
	store storage.ObjectStorage,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		products: products,
		resolver: resolver,
		store:    store,
		logger:   logger,
	}
}

// Export writes the complete catalog to object storage and returns the
// object key.
func (s *ExportService) Export(ctx context.Context) (*ExportResult, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.PageSize = 500

	var all []catalog.Product
	for {
		page, err := s.products.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < filter.PageSize {
			break
		}
		filter.Page++
	}

	data, err := s.renderCSV(all)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/catalogo-%s.csv", time.Now().UTC().Format("20060102-150405"))
	if err := s.store.Put(ctx, key, data, "text/csv"); err != nil {
		return nil, err
	}

	s.logger.Info("catalog exported",
		zap.String("key", key),
		zap.Int("products", len(all)),
	)
	return &ExportResult{Key: key, Products: len(all)}, nil
}

func (s *ExportService) renderCSV(products []catalog.Product) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "nombre", "categoria", "precio", "stock", "destacado", "pendiente", "imagen"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range products {
		p := &products[i]
		categoryName := ""
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		imageURL, _ := s.resolver.Resolve(p.ImageRef)
		record := []string{
			p.ID.String(),
			p.Name,
			categoryName,
			p.Price.StringFixed(2),
			fmt.Sprintf("%d", p.Stock),
			fmt.Sprintf("%t", p.Featured),
			fmt.Sprintf("%t", p.IsPending()),
			imageURL,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
