package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yoquet/backend/internal/domain/catalog"
	"github.com/yoquet/backend/internal/domain/media"
	"github.com/yoquet/backend/internal/domain/shared"
	inframedia "github.com/yoquet/backend/internal/infrastructure/media"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindFeatured(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindPending(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveAll(ctx context.Context, products []*catalog.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCDN struct {
	mock.Mock
}

func (m *MockCDN) Upload(ctx context.Context, file io.Reader, publicID string) (*inframedia.UploadResult, error) {
	args := m.Called(ctx, file, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inframedia.UploadResult), args.Error(1)
}

func (m *MockCDN) AssetExists(ctx context.Context, publicID string) (bool, error) {
	args := m.Called(ctx, publicID)
	return args.Bool(0), args.Error(1)
}

const placeholderURL = "https://res.cloudinary.com/demo/image/upload/placeholder.png"

func newTestSyncService(products *MockProductRepository, cdn *MockCDN) *SyncService {
	resolver := media.NewResolver(media.DefaultResolverConfig("demo"))
	return NewSyncService(products, resolver, cdn, placeholderURL, zap.NewNop())
}

func makeProduct(t *testing.T, name, imageRef string) catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(uuid.New(), name, decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	product.SetImageRef(imageRef)
	return *product
}

func TestSyncService_Repair_DryRun(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	cdn := new(MockCDN)
	svc := newTestSyncService(products, cdn)

	page := []catalog.Product{
		makeProduct(t, "Legacy path", "yoquet/productos/torta.jpg"),
		makeProduct(t, "Already canonical", "https://res.cloudinary.com/demo/image/upload/productos/ok.jpg"),
		makeProduct(t, "No image", ""),
	}
	products.On("FindAll", ctx, mock.Anything).Return(page, nil)

	report, err := svc.Repair(ctx, false, false)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.Changed)
	assert.Equal(t, 1, report.NoImage)
	assert.False(t, report.Applied)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, "yoquet/productos/torta.jpg", report.Changes[0].Before)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/productos/torta.jpg", report.Changes[0].After)

	// dry run never writes
	products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	products.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestSyncService_Repair_Apply(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	cdn := new(MockCDN)
	svc := newTestSyncService(products, cdn)

	legacy := makeProduct(t, "Legacy path", "productos/cupcake.jpg")
	products.On("FindAll", ctx, mock.Anything).Return([]catalog.Product{legacy}, nil)
	cdn.On("AssetExists", ctx, "cupcake").Return(true, nil)
	products.On("SaveAll", ctx, mock.MatchedBy(func(batch []*catalog.Product) bool {
		return len(batch) == 1 && batch[0].ImageRef == "https://res.cloudinary.com/demo/image/upload/cupcake.jpg"
	})).Return(nil)

	report, err := svc.Repair(ctx, true, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Changed)
	assert.True(t, report.Applied)
	products.AssertExpectations(t)
}

func TestSyncService_Repair_VerifyReplacesMissingAssets(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	cdn := new(MockCDN)
	svc := newTestSyncService(products, cdn)

	gone := makeProduct(t, "Asset gone", "yoquet/productos/desaparecida.jpg")
	products.On("FindAll", ctx, mock.Anything).Return([]catalog.Product{gone}, nil)
	cdn.On("AssetExists", ctx, "productos/desaparecida").Return(false, nil)
	products.On("SaveAll", ctx, mock.MatchedBy(func(batch []*catalog.Product) bool {
		return len(batch) == 1 && batch[0].ImageRef == placeholderURL
	})).Return(nil)

	report, err := svc.Repair(ctx, true, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Missing)
	require.Len(t, report.Changes, 1)
	assert.True(t, report.Changes[0].Missing)
	assert.Equal(t, placeholderURL, report.Changes[0].After)
}

func TestSyncService_UploadLocal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "torta.jpg"), []byte("fake-jpeg"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("ignored"), 0o644))

	products := new(MockProductRepository)
	cdn := new(MockCDN)
	svc := newTestSyncService(products, cdn)

	linked := makeProduct(t, "Torta", "torta.jpg")
	uploadedURL := "https://res.cloudinary.com/demo/image/upload/yoquet/productos/torta.jpg"

	cdn.On("Upload", ctx, mock.Anything, "torta").Return(&inframedia.UploadResult{
		PublicID:  "yoquet/productos/torta",
		SecureURL: uploadedURL,
	}, nil)
	products.On("FindAll", ctx, mock.Anything).Return([]catalog.Product{linked}, nil)
	products.On("Save", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
		return p.ImageRef == uploadedURL
	})).Return(nil)

	results, err := svc.UploadLocal(ctx, dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "torta.jpg", results[0].File)
	assert.Equal(t, uploadedURL, results[0].URL)
	products.AssertExpectations(t)
}
