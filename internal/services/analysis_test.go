package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmtrack/internal/domain"
)

func seedLayingFlock(t *testing.T, repo *fakePoultryRepo, identifier string, layingRate, brokenRate float64) *domain.Flock {
	t.Helper()
	now := time.Now()
	flock := domain.NewFlock(identifier, domain.BirdHen, domain.ProductionEggs, domain.HousingFreeRange, "ISA Brown", now, 500, now)
	require.NoError(t, repo.CreateFlock(context.Background(), flock))
	require.NoError(t, repo.CreateEggLayingRecord(context.Background(), &domain.EggLayingRecord{
		FlockID: flock.ID, RecordDate: now, EggCount: 300, LayingRate: layingRate, BrokenRate: brokenRate,
	}))
	return flock
}

func TestAnalysisService_AnalyzePoultry(t *testing.T) {
	ctx := context.Background()
	poultryRepo := newFakePoultryRepo()
	svc := NewAnalysisService(poultryRepo, newFakeFisheryRepo(), newFakeUserRepo(), nil, testLogger())

	seedLayingFlock(t, poultryRepo, "LOT-OK", 82.0, 2.0)
	lowLaying := seedLayingFlock(t, poultryRepo, "LOT-LOW", 48.5, 2.0)
	seedLayingFlock(t, poultryRepo, "LOT-BROKEN", 75.0, 11.0)

	now := time.Now()
	require.NoError(t, poultryRepo.CreateGrowthPerformance(ctx, &domain.GrowthPerformance{
		FlockID: lowLaying.ID, RecordDate: now, MortalityRate: 7.5,
	}))

	alerts, err := svc.AnalyzePoultry(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	bySeverity := map[string]int{}
	for _, a := range alerts {
		bySeverity[a.Severity]++
		assert.NotEmpty(t, a.Title)
		assert.NotEmpty(t, a.Description)
		assert.NotEmpty(t, a.Recommendation)
	}
	assert.Equal(t, 1, bySeverity[domain.SeverityHigh])
	assert.Equal(t, 1, bySeverity[domain.SeverityMedium])
	assert.Equal(t, 1, bySeverity[domain.SeverityCritical])

	// Default locale is French.
	found := false
	for _, a := range alerts {
		if a.RelatedData["flock_id"] == lowLaying.ID && a.Severity == domain.SeverityHigh {
			assert.Contains(t, a.Title, "LOT-LOW")
			assert.Contains(t, a.Title, "ponte")
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalysisService_AnalyzeFishery(t *testing.T) {
	ctx := context.Background()
	fisheryRepo := newFakeFisheryRepo()
	svc := NewAnalysisService(newFakePoultryRepo(), fisheryRepo, newFakeUserRepo(), nil, testLogger())
	now := time.Now()

	good := domain.NewPond("Bassin sain", domain.EnvironmentFreshwater, "tilapia", 100, 80, 1.25, 1000, now, now)
	bad := domain.NewPond("Bassin critique", domain.EnvironmentFreshwater, "tilapia", 100, 80, 1.25, 1000, now, now)
	require.NoError(t, fisheryRepo.CreatePond(ctx, good))
	require.NoError(t, fisheryRepo.CreatePond(ctx, bad))

	require.NoError(t, fisheryRepo.CreateWaterQualityReading(ctx, &domain.WaterQualityReading{
		PondID: good.ID, MeasuredAt: now, Temperature: 26, PH: 7.1, DissolvedOxygen: 6.2, Ammonia: 0.02,
	}))
	require.NoError(t, fisheryRepo.CreateWaterQualityReading(ctx, &domain.WaterQualityReading{
		PondID: bad.ID, MeasuredAt: now, Temperature: 26, PH: 7.1, DissolvedOxygen: 1.8, Ammonia: 0.3,
	}))

	alerts, err := svc.AnalyzeFishery(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.SeverityCritical, alerts[0].Severity)
	assert.Contains(t, alerts[0].Title, "Bassin critique")
	assert.Equal(t, bad.ID, alerts[0].RelatedData["pond_id"])
}

func TestAnalysisService_RunFullAnalysis(t *testing.T) {
	ctx := context.Background()

	poultryRepo := newFakePoultryRepo()
	seedLayingFlock(t, poultryRepo, "LOT-LOW", 40.0, 1.0)

	userRepo := newFakeUserRepo()
	userRepo.add(&domain.User{ID: "u1", Username: "Alice", Email: "alice@example.com", Language: domain.LangFrench, NotificationsEnabled: true, Active: true})
	userRepo.add(&domain.User{ID: "u2", Username: "Bob", Email: "bob@example.com", Language: domain.LangEnglish, NotificationsEnabled: true, Active: true})
	userRepo.add(&domain.User{ID: "u3", Username: "Mute", Email: "mute@example.com", Language: domain.LangFrench, NotificationsEnabled: false, Active: true})
	userRepo.add(&domain.User{ID: "u4", Username: "Gone", Email: "gone@example.com", Language: domain.LangFrench, NotificationsEnabled: true, Active: false})

	notifRepo := newFakeNotificationRepo()
	broadcaster := newFakeBroadcaster()
	emails := &fakeEmailService{}
	notifier := NewNotificationService(notifRepo, userRepo, newFakeDeviceRepo(), broadcaster, nil, emails, testLogger())

	svc := NewAnalysisService(poultryRepo, newFakeFisheryRepo(), userRepo, notifier, testLogger())
	require.NoError(t, svc.RunFullAnalysis(ctx))

	// Only the two active users with notifications enabled are notified.
	assert.Len(t, broadcaster.pushed["u1"], 1)
	assert.Len(t, broadcaster.pushed["u2"], 1)
	assert.Empty(t, broadcaster.pushed["u3"])
	assert.Empty(t, broadcaster.pushed["u4"])

	// Each notification is localized to its recipient.
	require.Len(t, broadcaster.pushed["u1"], 1)
	assert.Contains(t, broadcaster.pushed["u1"][0].Title, "ponte")
	assert.Contains(t, broadcaster.pushed["u2"][0].Title, "laying")

	// Low laying rate is severity high, so it is emailed too.
	require.Len(t, emails.alerts, 2)
	assert.ElementsMatch(t, []string{domain.LangFrench, domain.LangEnglish}, emails.alertLangs)
}
