package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yoquet/backend/internal/domain/catalog"
	"github.com/yoquet/backend/internal/domain/media"
	"github.com/yoquet/backend/internal/domain/shared"
	inframedia "github.com/yoquet/backend/internal/infrastructure/media"
)

// Change records one product whose image reference the repair pass
// would rewrite (or did rewrite, in apply mode).
type Change struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Before      string `json:"before"`
	After       string `json:"after"`
	Missing     bool   `json:"missing,omitempty"`
}

// Report summarizes a repair pass
type Report struct {
	Scanned int      `json:"scanned"`
	Changed int      `json:"changed"`
	Missing int      `json:"missing"`
	NoImage int      `json:"no_image"`
	Applied bool     `json:"applied"`
	Changes []Change `json:"changes"`
}

// SyncService repairs stored image references in bulk and pushes local
// media files up to the CDN. The per-request Resolver never writes;
// this service is the only writer of normalized references.
type SyncService struct {
	products    catalog.ProductRepository
	resolver    *media.Resolver
	cdn         inframedia.CDN
	placeholder string
	logger      *zap.Logger
}

// NewSyncService creates a new media sync service
func NewSyncService(
	products catalog.ProductRepository,
	resolver *media.Resolver,
	cdn inframedia.CDN,
	placeholder string,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		products:    products,
		resolver:    resolver,
		cdn:         cdn,
		placeholder: placeholder,
		logger:      logger,
	}
}

// Repair walks every product and rewrites legacy image references to
// their canonical delivery URL. With verify set, references whose asset
// is gone from the CDN are replaced by the placeholder. In dry-run mode
// (apply false) nothing is written; the report shows what would change.
// Apply mode persists every rewrite in one transaction and always
// verifies assets before writing; verify alone checks without writing.
func (s *SyncService) Repair(ctx context.Context, apply, verify bool) (*Report, error) {
	verify = verify || apply
	report := &Report{Applied: apply}
	var changed []*catalog.Product

	filter := shared.DefaultFilter()
	filter.OrderBy = "created_at"
	filter.OrderDir = "asc"
	filter.PageSize = 200

	for {
		page, err := s.products.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		for i := range page {
			if product := s.repairOne(ctx, &page[i], verify, report); product != nil {
				changed = append(changed, product)
			}
		}
		if len(page) < filter.PageSize {
			break
		}
		filter.Page++
	}

	if apply && len(changed) > 0 {
		if err := s.products.SaveAll(ctx, changed); err != nil {
			return nil, err
		}
	}

	s.logger.Info("image repair pass finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("changed", report.Changed),
		zap.Int("missing", report.Missing),
		zap.Bool("applied", apply),
	)
	return report, nil
}

// repairOne records the rewrite for one product and returns the
// modified product, or nil when nothing changes
func (s *SyncService) repairOne(ctx context.Context, product *catalog.Product, verify bool, report *Report) *catalog.Product {
	report.Scanned++

	url, ok := s.resolver.Resolve(product.ImageRef)
	if !ok {
		report.NoImage++
		return nil
	}

	missing := false
	if verify {
		publicID := s.resolver.PublicID(url)
		if publicID != "" {
			exists, err := s.cdn.AssetExists(ctx, publicID)
			if err != nil {
				s.logger.Warn("asset verification failed",
					zap.String("product_id", product.ID.String()),
					zap.Error(err),
				)
			} else if !exists {
				missing = true
				url = s.placeholder
			}
		}
	}

	if url == product.ImageRef {
		return nil
	}

	report.Changes = append(report.Changes, Change{
		ProductID:   product.ID.String(),
		ProductName: product.Name,
		Before:      product.ImageRef,
		After:       url,
		Missing:     missing,
	})
	report.Changed++
	if missing {
		report.Missing++
	}

	product.SetImageRef(url)
	return product
}

// UploadResult reports one local file pushed to the CDN
type UploadResult struct {
	File     string `json:"file"`
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// UploadLocal pushes every image file under dir to the CDN and returns
// the delivery URLs. Products whose stored reference is the bare
// filename are rewritten to the uploaded URL.
func (s *SyncService) UploadLocal(ctx context.Context, dir string) ([]UploadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var results []UploadResult
	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}

		f, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		publicID := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		uploaded, err := s.cdn.Upload(ctx, f, publicID)
		f.Close()
		if err != nil {
			s.logger.Warn("upload failed",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}

		if err := s.relinkProducts(ctx, entry.Name(), uploaded.SecureURL); err != nil {
			return nil, err
		}

		results = append(results, UploadResult{
			File:     entry.Name(),
			PublicID: uploaded.PublicID,
			URL:      uploaded.SecureURL,
		})
	}

	s.logger.Info("local media uploaded",
		zap.String("dir", dir),
		zap.Int("files", len(results)),
	)
	return results, nil
}

// relinkProducts points products referencing the bare filename at the
// freshly uploaded delivery URL
func (s *SyncService) relinkProducts(ctx context.Context, filename, url string) error {
	filter := shared.DefaultFilter()
	filter.PageSize = 200

	for {
		page, err := s.products.FindAll(ctx, filter)
		if err != nil {
			return err
		}
		for i := range page {
			product := &page[i]
			if filepath.Base(strings.TrimSpace(product.ImageRef)) != filename {
				continue
			}
			product.SetImageRef(url)
			if err := s.products.Save(ctx, product); err != nil {
				return err
			}
		}
		if len(page) < filter.PageSize {
			return nil
		}
		filter.Page++
	}
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return true
	}
	return false
}
