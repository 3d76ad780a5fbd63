package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	matchingapp "github.com/StephaneWamba/InvoiceFlow/internal/application/matching"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/matching"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/StephaneWamba/InvoiceFlow/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockResultRepository implements matching.ResultRepository for testing
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) FindByID(ctx context.Context, id uuid.UUID) (*matching.MatchingResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matching.MatchingResult), args.Error(1)
}

func (m *MockResultRepository) FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]matching.MatchingResult, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]matching.MatchingResult), args.Error(1)
}

func (m *MockResultRepository) SaveAll(ctx context.Context, results []matching.MatchingResult) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockResultRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	args := m.Called(ctx, workspaceID)
	return args.Error(0)
}

func (m *MockResultRepository) ReplaceForWorkspace(ctx context.Context, workspaceID uuid.UUID, results []matching.MatchingResult) error {
	args := m.Called(ctx, workspaceID, results)
	return args.Error(0)
}

var _ matching.ResultRepository = (*MockResultRepository)(nil)

// Test helpers

type matchingTestEnv struct {
	router        *gin.Engine
	workspaceRepo *MockWorkspaceRepository
	documentRepo  *MockDocumentRepository
	extractedRepo *MockExtractedDataRepository
	resultRepo    *MockResultRepository
	lock          *cache.InMemoryReconcileLock
}

func setupMatchingTestRouter() *matchingTestEnv {
	env := &matchingTestEnv{
		workspaceRepo: new(MockWorkspaceRepository),
		documentRepo:  new(MockDocumentRepository),
		extractedRepo: new(MockExtractedDataRepository),
		resultRepo:    new(MockResultRepository),
		lock:          cache.NewInMemoryReconcileLock(5 * time.Minute),
	}
	service := matchingapp.NewService(
		env.workspaceRepo,
		env.documentRepo,
		env.extractedRepo,
		env.resultRepo,
		env.lock,
		zap.NewNop(),
	)
	handler := NewMatchingHandler(service)

	env.router = gin.New()
	handler.RegisterRoutes(env.router.Group("/api/v1"))
	return env
}

func processedDocument(t *testing.T, workspaceID uuid.UUID, docType document.Type, fileName string) *document.Document {
	t.Helper()
	doc, err := document.NewDocument(workspaceID, docType, fileName, "workspaces/x/"+fileName, 256)
	require.NoError(t, err)
	require.NoError(t, doc.MarkProcessing())
	require.NoError(t, doc.MarkProcessed())
	return doc
}

func extractedWithPONumber(t *testing.T, documentID uuid.UUID, poNumber string, total decimal.Decimal) document.ExtractedData {
	t.Helper()
	data, err := document.NewExtractedData(documentID)
	require.NoError(t, err)
	data.PONumber = &poNumber
	data.TotalAmount = &total
	return *data
}

// Tests

func TestMatchingHandler_Reconcile(t *testing.T) {
	t.Run("pairs documents and replaces previous results", func(t *testing.T) {
		env := setupMatchingTestRouter()
		workspace := createTestWorkspace(t, "Reconcile Me")
		po := processedDocument(t, workspace.ID, document.TypePurchaseOrder, "po.pdf")
		invoice := processedDocument(t, workspace.ID, document.TypeInvoice, "inv.pdf")

		env.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)
		env.documentRepo.On("FindByWorkspaceAndStatus", mock.Anything, workspace.ID, document.StatusProcessed).
			Return([]document.Document{*po, *invoice}, nil)
		env.extractedRepo.On("FindByDocuments", mock.Anything, mock.AnythingOfType("[]uuid.UUID")).
			Return([]document.ExtractedData{
				extractedWithPONumber(t, po.ID, "PO-1001", decimal.NewFromInt(1500)),
				extractedWithPONumber(t, invoice.ID, "PO-1001", decimal.NewFromInt(1500)),
			}, nil)
		env.resultRepo.On("ReplaceForWorkspace", mock.Anything, workspace.ID, mock.AnythingOfType("[]matching.MatchingResult")).
			Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces/"+workspace.ID.String()+"/reconcile", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, float64(1), data["result_count"])
		env.resultRepo.AssertExpectations(t)
	})

	t.Run("empty workspace yields zero results", func(t *testing.T) {
		env := setupMatchingTestRouter()
		workspace := createTestWorkspace(t, "Empty")
		env.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)
		env.documentRepo.On("FindByWorkspaceAndStatus", mock.Anything, workspace.ID, document.StatusProcessed).
			Return([]document.Document{}, nil)
		env.resultRepo.On("ReplaceForWorkspace", mock.Anything, workspace.ID, mock.AnythingOfType("[]matching.MatchingResult")).
			Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces/"+workspace.ID.String()+"/reconcile", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, float64(0), data["result_count"])
	})

	t.Run("returns 409 while another run holds the workspace", func(t *testing.T) {
		env := setupMatchingTestRouter()
		workspace := createTestWorkspace(t, "Busy")
		env.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)

		acquired, err := env.lock.Acquire(context.Background(), workspace.ID)
		require.NoError(t, err)
		require.True(t, acquired)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces/"+workspace.ID.String()+"/reconcile", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "RECONCILE_IN_PROGRESS", resp.Error.Code)
	})

	t.Run("releases the lock after a run", func(t *testing.T) {
		env := setupMatchingTestRouter()
		workspace := createTestWorkspace(t, "Lock Cycle")
		env.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)
		env.documentRepo.On("FindByWorkspaceAndStatus", mock.Anything, workspace.ID, document.StatusProcessed).
			Return([]document.Document{}, nil)
		env.resultRepo.On("ReplaceForWorkspace", mock.Anything, workspace.ID, mock.Anything).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces/"+workspace.ID.String()+"/reconcile", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		acquired, err := env.lock.Acquire(context.Background(), workspace.ID)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("returns 404 for unknown workspace", func(t *testing.T) {
		env := setupMatchingTestRouter()
		id := uuid.New()
		env.workspaceRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces/"+id.String()+"/reconcile", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMatchingHandler_ListResults(t *testing.T) {
	t.Run("returns persisted results", func(t *testing.T) {
		env := setupMatchingTestRouter()
		workspace := createTestWorkspace(t, "With Results")
		result := matching.MatchingResult{
			ID:          uuid.New(),
			WorkspaceID: workspace.ID,
			MatchedBy:   matching.MatchedByPONumber,
		}
		env.workspaceRepo.On("FindByID", mock.Anything, workspace.ID).Return(workspace, nil)
		env.resultRepo.On("FindByWorkspace", mock.Anything, workspace.ID).
			Return([]matching.MatchingResult{result}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/"+workspace.ID.String()+"/results", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		items := decodeResponse(t, w).Data.([]interface{})
		require.Len(t, items, 1)
		first := items[0].(map[string]interface{})
		assert.Equal(t, result.ID.String(), first["id"])
	})

	t.Run("returns 404 for unknown workspace", func(t *testing.T) {
		env := setupMatchingTestRouter()
		id := uuid.New()
		env.workspaceRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/"+id.String()+"/results", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMatchingHandler_GetResult(t *testing.T) {
	t.Run("returns result with discrepancies", func(t *testing.T) {
		env := setupMatchingTestRouter()
		itemNumber := "1001"
		result := &matching.MatchingResult{
			ID:          uuid.New(),
			WorkspaceID: uuid.New(),
			MatchedBy:   matching.MatchedByPONumber,
			Discrepancies: matching.DiscrepancyList{
				{
					Type:       matching.DiscrepancyQuantityMismatch,
					Severity:   matching.SeverityHigh,
					ItemNumber: &itemNumber,
				},
			},
		}
		env.resultRepo.On("FindByID", mock.Anything, result.ID).Return(result, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/results/"+result.ID.String(), nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		discrepancies := data["discrepancies"].([]interface{})
		require.Len(t, discrepancies, 1)
	})

	t.Run("returns 404 for unknown result", func(t *testing.T) {
		env := setupMatchingTestRouter()
		id := uuid.New()
		env.resultRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/results/"+id.String(), nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "MATCHING_RESULT_NOT_FOUND", resp.Error.Code)
	})
}
