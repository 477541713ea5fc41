package view

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/procurement/internal/config"
	"github.com/MrJamesThe3rd/procurement/internal/database"
	"github.com/MrJamesThe3rd/procurement/internal/export"
	"github.com/MrJamesThe3rd/procurement/internal/purchase"
	"github.com/MrJamesThe3rd/procurement/internal/purchase/store"
)

func TestWriteExport_CreatesDirectoryAndFile(t *testing.T) {
	ctx := context.Background()

	purchases := purchase.NewService(store.New(database.NewTestDB(t), config.DriverSQLite), nil)

	d := newDraftFields()
	d.title = "Flood markers"
	d.supplierName = "Hardware Depot"
	d.itemName = "Marker post"
	d.quantity = "10"
	d.unitPrice = "150"

	params, err := d.params("tester")
	require.NoError(t, err)

	created, err := purchases.Create(ctx, params)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "nested", "exports")

	path, err := writeExport(ctx, export.NewService(purchases), export.FormatCSV, purchase.ListFilter{}, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, export.Header, rows[0])
	assert.Equal(t, created.ID, rows[1][0])
}
