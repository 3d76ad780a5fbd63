package matching

import (
	"context"
	"errors"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/matching"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReconcileLock serializes reconciliation runs per workspace. Acquire
// returns false when another run currently holds the workspace.
type ReconcileLock interface {
	Acquire(ctx context.Context, workspaceID uuid.UUID) (bool, error)
	Release(ctx context.Context, workspaceID uuid.UUID) error
}

// Service runs the reconciliation engine over a workspace and manages its
// persisted results.
type Service struct {
	workspaceRepo document.WorkspaceRepository
	documentRepo  document.Repository
	extractedRepo document.ExtractedDataRepository
	resultRepo    matching.ResultRepository
	reconciler    *matching.Reconciler
	lock          ReconcileLock
	logger        *zap.Logger
}

// NewService creates a new matching Service
func NewService(
	workspaceRepo document.WorkspaceRepository,
	documentRepo document.Repository,
	extractedRepo document.ExtractedDataRepository,
	resultRepo matching.ResultRepository,
	lock ReconcileLock,
	logger *zap.Logger,
) *Service {
	return &Service{
		workspaceRepo: workspaceRepo,
		documentRepo:  documentRepo,
		extractedRepo: extractedRepo,
		resultRepo:    resultRepo,
		reconciler:    matching.NewReconciler(),
		lock:          lock,
		logger:        logger,
	}
}

// RunWorkspace reconciles a workspace's processed documents and replaces its
// previously persisted results. Runs for the same workspace are serialized
// by the lock; a held lock surfaces as RECONCILE_IN_PROGRESS.
func (s *Service) RunWorkspace(ctx context.Context, workspaceID uuid.UUID) (*RunResponse, error) {
	if _, err := s.workspaceRepo.FindByID(ctx, workspaceID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("WORKSPACE_NOT_FOUND", "Workspace not found")
		}
		return nil, err
	}

	acquired, err := s.lock.Acquire(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, shared.ErrReconcileInProgress
	}
	defer func() {
		if err := s.lock.Release(ctx, workspaceID); err != nil {
			s.logger.Warn("failed to release reconcile lock",
				zap.String("workspace_id", workspaceID.String()), zap.Error(err))
		}
	}()

	records, err := s.loadRecords(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	results := s.reconciler.Reconcile(workspaceID, records)

	if err := s.resultRepo.ReplaceForWorkspace(ctx, workspaceID, results); err != nil {
		return nil, err
	}

	s.logger.Info("workspace reconciled",
		zap.String("workspace_id", workspaceID.String()),
		zap.Int("documents", len(records)),
		zap.Int("results", len(results)))

	return &RunResponse{
		WorkspaceID: workspaceID,
		ResultCount: len(results),
		Results:     ToMatchingResultResponses(results),
	}, nil
}

// loadRecords snapshots the workspace's processed documents together with
// their extracted data as engine input.
func (s *Service) loadRecords(ctx context.Context, workspaceID uuid.UUID) ([]matching.DocumentRecord, error) {
	documents, err := s.documentRepo.FindByWorkspaceAndStatus(ctx, workspaceID, document.StatusProcessed)
	if err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(documents))
	for i := range documents {
		ids[i] = documents[i].ID
	}
	extracted, err := s.extractedRepo.FindByDocuments(ctx, ids)
	if err != nil {
		return nil, err
	}
	byDocument := make(map[uuid.UUID]*document.ExtractedData, len(extracted))
	for i := range extracted {
		byDocument[extracted[i].DocumentID] = &extracted[i]
	}

	records := make([]matching.DocumentRecord, 0, len(documents))
	for i := range documents {
		data, ok := byDocument[documents[i].ID]
		if !ok {
			continue
		}
		records = append(records, matching.DocumentRecord{
			Document: &documents[i],
			Data:     data,
		})
	}
	return records, nil
}

// ListResults lists a workspace's persisted matching results
func (s *Service) ListResults(ctx context.Context, workspaceID uuid.UUID) ([]MatchingResultResponse, error) {
	if _, err := s.workspaceRepo.FindByID(ctx, workspaceID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("WORKSPACE_NOT_FOUND", "Workspace not found")
		}
		return nil, err
	}

	results, err := s.resultRepo.FindByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return ToMatchingResultResponses(results), nil
}

// GetResult gets a single matching result by ID
func (s *Service) GetResult(ctx context.Context, id uuid.UUID) (*MatchingResultResponse, error) {
	result, err := s.resultRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("MATCHING_RESULT_NOT_FOUND", "Matching result not found")
		}
		return nil, err
	}

	response := ToMatchingResultResponse(result)
	return &response, nil
}
