package persistence

import (
	"testing"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/matching"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&document.Workspace{},
		&document.Document{},
		&document.ExtractedData{},
		&matching.MatchingResult{},
	)
	require.NoError(t, err)

	return db
}

func newTestWorkspace(t *testing.T, name string) *document.Workspace {
	workspace, err := document.NewWorkspace(name, true)
	require.NoError(t, err)
	return workspace
}

func newTestDocument(t *testing.T, workspace *document.Workspace, docType document.Type, fileName string) *document.Document {
	doc, err := document.NewDocument(workspace.ID, docType, fileName, "workspaces/"+workspace.ID.String()+"/"+fileName, 2048)
	require.NoError(t, err)
	return doc
}
