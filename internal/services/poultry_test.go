package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmtrack/internal/domain"
)

func TestPoultryService_CreateFlock(t *testing.T) {
	ctx := context.Background()
	repo := newFakePoultryRepo()
	svc := NewPoultryService(repo)
	now := time.Now()

	flock := domain.NewFlock("LOT-2026-01", domain.BirdHen, domain.ProductionEggs, domain.HousingFreeRange, "ISA Brown", now, 500, now)
	require.NoError(t, svc.CreateFlock(ctx, flock))
	assert.NotEmpty(t, flock.ID)
	assert.Equal(t, 500, flock.CurrentHeadcount)
	assert.Equal(t, domain.FlockActive, flock.Status)

	dup := domain.NewFlock("LOT-2026-01", domain.BirdHen, domain.ProductionEggs, domain.HousingFreeRange, "ISA Brown", now, 300, now)
	require.ErrorIs(t, svc.CreateFlock(ctx, dup), domain.ErrDuplicateIdentifier)

	bad := domain.NewFlock("LOT-2026-02", domain.BirdHen, domain.ProductionEggs, domain.HousingFreeRange, "ISA Brown", now, 0, now)
	require.Error(t, svc.CreateFlock(ctx, bad))
}

func TestPoultryService_UpdateFlock(t *testing.T) {
	ctx := context.Background()
	repo := newFakePoultryRepo()
	svc := NewPoultryService(repo)
	now := time.Now()

	flock := domain.NewFlock("LOT-2026-01", domain.BirdChicken, domain.ProductionMeat, domain.HousingIntensive, "Ross 308", now, 1000, now)
	require.NoError(t, svc.CreateFlock(ctx, flock))

	headcount := 950
	updated, err := svc.UpdateFlock(ctx, flock.ID, domain.FlockUpdate{CurrentHeadcount: &headcount})
	require.NoError(t, err)
	assert.Equal(t, 950, updated.CurrentHeadcount)
	assert.Equal(t, domain.FlockActive, updated.Status)

	// Setting a cull date closes the flock.
	cullDate := now.AddDate(0, 2, 0)
	updated, err = svc.UpdateFlock(ctx, flock.ID, domain.FlockUpdate{CullDate: &cullDate})
	require.NoError(t, err)
	assert.Equal(t, domain.FlockCulled, updated.Status)
	require.NotNil(t, updated.CullDate)

	negative := -1
	_, err = svc.UpdateFlock(ctx, flock.ID, domain.FlockUpdate{CurrentHeadcount: &negative})
	require.Error(t, err)

	_, err = svc.UpdateFlock(ctx, "missing", domain.FlockUpdate{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPoultryService_RecordEggLaying(t *testing.T) {
	ctx := context.Background()
	repo := newFakePoultryRepo()
	svc := NewPoultryService(repo)
	now := time.Now()

	flock := domain.NewFlock("LOT-2026-01", domain.BirdHen, domain.ProductionEggs, domain.HousingFreeRange, "ISA Brown", now, 200, now)
	require.NoError(t, svc.CreateFlock(ctx, flock))

	rec := &domain.EggLayingRecord{FlockID: flock.ID, RecordDate: now, EggCount: 150}
	require.NoError(t, svc.RecordEggLaying(ctx, rec))
	// 150 eggs from 200 hens.
	assert.InDelta(t, 75.0, rec.LayingRate, 0.01)

	// A client-supplied rate is kept as-is.
	rec2 := &domain.EggLayingRecord{FlockID: flock.ID, RecordDate: now, EggCount: 150, LayingRate: 72.5}
	require.NoError(t, svc.RecordEggLaying(ctx, rec2))
	assert.Equal(t, 72.5, rec2.LayingRate)

	unknown := &domain.EggLayingRecord{FlockID: "missing", RecordDate: now, EggCount: 10}
	require.ErrorIs(t, svc.RecordEggLaying(ctx, unknown), domain.ErrNotFound)
}

func TestPoultryService_RecordWeighing(t *testing.T) {
	ctx := context.Background()
	repo := newFakePoultryRepo()
	svc := NewPoultryService(repo)
	now := time.Now()

	flock := domain.NewFlock("LOT-2026-01", domain.BirdChicken, domain.ProductionMeat, domain.HousingIntensive, "Ross 308", now, 1000, now)
	require.NoError(t, svc.CreateFlock(ctx, flock))

	rec := &domain.WeighingRecord{FlockID: flock.ID, WeighedAt: now, SampleSize: 20, TotalWeight: 44.0}
	require.NoError(t, svc.RecordWeighing(ctx, rec))
	assert.InDelta(t, 2.2, rec.MeanWeight, 0.001)

	bad := &domain.WeighingRecord{FlockID: flock.ID, WeighedAt: now, SampleSize: 0}
	require.Error(t, svc.RecordWeighing(ctx, bad))
}

func TestPoultryService_ExportFlocksCSV(t *testing.T) {
	ctx := context.Background()
	repo := newFakePoultryRepo()
	svc := NewPoultryService(repo)
	placed := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	a := domain.NewFlock("LOT-A", domain.BirdHen, domain.ProductionEggs, domain.HousingFreeRange, "ISA Brown", placed, 500, placed)
	b := domain.NewFlock("LOT-B", domain.BirdDuck, domain.ProductionMeat, domain.HousingLabel, "Mulard", placed, 120, placed)
	require.NoError(t, svc.CreateFlock(ctx, a))
	require.NoError(t, svc.CreateFlock(ctx, b))

	out, err := svc.ExportFlocksCSV(ctx)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "identifier,bird_type"))
	assert.Contains(t, lines[1], "LOT-A")
	assert.Contains(t, lines[1], "2026-03-15")
	assert.Contains(t, lines[2], "LOT-B")
}
