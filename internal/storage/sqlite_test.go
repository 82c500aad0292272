package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mecarent/internal/models"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewSQLite(filepath.Join(t.TempDir(), "snapshot.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	createdAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	snap := &models.Snapshot{
		Machines: []models.Machine{{
			ID: "m-1", Name: "Motopompe diesel", Type: "motopompe", Location: "Thiès",
			Capacity: "5 HP", Consumption: "Diesel", Description: "Motopompe robuste",
			PriceHour: 2000, PriceDay: 10000,
			Modes:     []models.AccessMode{models.ModeRental, models.ModeLeasing},
			Available: false, HolderID: "h-1", CreatedAt: createdAt,
		}},
		Rentals: []models.Rental{{
			ID: "r-1", MachineID: "m-1", RequesterID: "op-1",
			Mode: models.ModeRental, UnitPrice: 2000, Unit: models.UnitHour,
			Quantity: 3, TotalPrice: 6000, Status: models.StatusActive,
			StartTime: createdAt, Duration: 3 * time.Hour, CreatedAt: createdAt,
		}},
		Users: []models.User{{
			ID: "u-1", Role: models.RoleOperator, Name: "Moussa", Location: "Kaolack",
			Phone: "771234567", Activity: "maraîchage", AreaHa: 2.5, Crops: "oignon",
			CreatedAt: createdAt,
		}},
	}

	require.NoError(t, db.Save(ctx, snap))

	loaded, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Machines, 1)
	require.Len(t, loaded.Rentals, 1)
	require.Len(t, loaded.Users, 1)

	assert.Equal(t, snap.Machines[0], loaded.Machines[0])
	assert.Equal(t, snap.Rentals[0], loaded.Rentals[0])
	assert.Equal(t, snap.Users[0], loaded.Users[0])
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	createdAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	first := &models.Snapshot{Machines: []models.Machine{
		{ID: "m-1", Name: "Moulin", Modes: []models.AccessMode{models.ModeRental}, CreatedAt: createdAt},
		{ID: "m-2", Name: "Semoir", Modes: []models.AccessMode{models.ModeRental}, CreatedAt: createdAt},
	}}
	require.NoError(t, db.Save(ctx, first))

	second := &models.Snapshot{Machines: []models.Machine{
		{ID: "m-2", Name: "Semoir manuel", Modes: []models.AccessMode{models.ModeRental}, CreatedAt: createdAt},
	}}
	require.NoError(t, db.Save(ctx, second))

	loaded, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Machines, 1)
	assert.Equal(t, "Semoir manuel", loaded.Machines[0].Name)
	assert.Empty(t, loaded.Rentals)
}

func TestLoadEmptyDatabase(t *testing.T) {
	db := newTestDB(t)

	snap, err := db.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Machines)
	assert.Empty(t, snap.Rentals)
	assert.Empty(t, snap.Users)
}

func TestBackupService(t *testing.T) {
	dbDir := t.TempDir()
	dbPath := filepath.Join(dbDir, "snapshot.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("snapshot-bytes"), 0o644))

	backupDir := filepath.Join(dbDir, "backups")
	logger := zerolog.New(io.Discard)
	svc := NewBackupService(dbPath, BackupConfig{
		Enabled:       true,
		StoragePath:   backupDir,
		RetentionDays: 7,
	}, &logger)

	require.NoError(t, svc.PerformBackup())

	files, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(filepath.Join(backupDir, files[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []byte("snapshot-bytes"), data)
}
