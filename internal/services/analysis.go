package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"farmtrack/internal/domain"
	"farmtrack/internal/i18n"
)

// Alert thresholds for the rule-based analyzers.
const (
	lowLayingRateThreshold  = 60.0 // %
	highMortalityThreshold  = 5.0  // %
	highBrokenRateThreshold = 8.0  // %

	analysisPageSize = 100
)

// finding is an alert before localization. Title and body message keys are
// resolved per recipient language at delivery time.
type finding struct {
	key      string
	severity string
	// Args: identifier then measured value(s), matching the message format.
	titleArgs []any
	bodyArgs  []any
	related   map[string]any
}

func (f finding) localize(lang string) domain.Alert {
	return domain.Alert{
		Title:          i18n.T(lang, f.key+".title", f.titleArgs...),
		Description:    i18n.T(lang, f.key+".body", f.bodyArgs...),
		Severity:       f.severity,
		Recommendation: i18n.T(lang, f.key+".recommendation"),
		RelatedData:    f.related,
	}
}

type analysisService struct {
	poultryRepo domain.PoultryRepository
	fisheryRepo domain.FisheryRepository
	userRepo    domain.UserRepository
	notifier    domain.NotificationService
	logger      *slog.Logger
}

// NewAnalysisService creates an AnalysisService over the farm repositories.
func NewAnalysisService(poultryRepo domain.PoultryRepository, fisheryRepo domain.FisheryRepository, userRepo domain.UserRepository, notifier domain.NotificationService, logger *slog.Logger) domain.AnalysisService {
	return &analysisService{
		poultryRepo: poultryRepo,
		fisheryRepo: fisheryRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *analysisService) AnalyzePoultry(ctx context.Context) ([]domain.Alert, error) {
	findings, err := s.analyzePoultry(ctx)
	if err != nil {
		return nil, err
	}
	return localizeAll(findings, i18n.DefaultLang), nil
}

func (s *analysisService) AnalyzeFishery(ctx context.Context) ([]domain.Alert, error) {
	findings, err := s.analyzeFishery(ctx)
	if err != nil {
		return nil, err
	}
	return localizeAll(findings, i18n.DefaultLang), nil
}

// RunFullAnalysis runs every analyzer and delivers the combined findings to
// all active users with notifications enabled, localized to each user's
// language. Called from the scheduled job and from the manual trigger endpoint.
func (s *analysisService) RunFullAnalysis(ctx context.Context) error {
	started := time.Now()

	var findings []finding
	poultry, err := s.analyzePoultry(ctx)
	if err != nil {
		return fmt.Errorf("poultry analysis failed: %w", err)
	}
	findings = append(findings, poultry...)

	fishery, err := s.analyzeFishery(ctx)
	if err != nil {
		return fmt.Errorf("fishery analysis failed: %w", err)
	}
	findings = append(findings, fishery...)

	if len(findings) == 0 {
		s.logger.Info("full analysis finished with no findings", "duration", time.Since(started))
		return nil
	}

	delivered := 0
	for page := 1; ; page++ {
		users, total, err := s.userRepo.List(ctx, domain.PaginationParams{Page: page, PageSize: analysisPageSize})
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		for _, user := range users {
			if !user.Active || !user.NotificationsEnabled {
				continue
			}
			for _, f := range findings {
				alert := f.localize(user.Language)
				n := domain.NewNotification(user.ID, alert.Title, alert.Description+" "+alert.Recommendation, alert.Severity, time.Now())
				if err := s.notifier.Notify(ctx, n); err != nil {
					s.logger.Error("failed to deliver analysis alert", "user_id", user.ID, "err", err)
					continue
				}
				delivered++
			}
		}
		if page*analysisPageSize >= total || len(users) == 0 {
			break
		}
	}

	s.logger.Info("full analysis finished",
		"findings", len(findings),
		"notifications", delivered,
		"duration", time.Since(started))
	return nil
}

// analyzePoultry checks each active flock's latest laying control and growth
// performance against the thresholds.
func (s *analysisService) analyzePoultry(ctx context.Context) ([]finding, error) {
	var findings []finding
	for page := 1; ; page++ {
		flocks, total, err := s.poultryRepo.ListFlocks(ctx, domain.FlockFilter{Status: domain.FlockActive}, domain.PaginationParams{Page: page, PageSize: analysisPageSize})
		if err != nil {
			return nil, fmt.Errorf("failed to list flocks: %w", err)
		}
		for _, flock := range flocks {
			flockFindings, err := s.analyzeFlock(ctx, flock)
			if err != nil {
				return nil, err
			}
			findings = append(findings, flockFindings...)
		}
		if page*analysisPageSize >= total || len(flocks) == 0 {
			break
		}
	}
	return findings, nil
}

func (s *analysisService) analyzeFlock(ctx context.Context, flock *domain.Flock) ([]finding, error) {
	var findings []finding

	// Records list newest first; one record is enough per rule.
	latest := domain.PaginationParams{Page: 1, PageSize: 1}

	if flock.ProductionType == domain.ProductionEggs || flock.ProductionType == domain.ProductionDual {
		records, _, err := s.poultryRepo.ListEggLayingRecords(ctx, domain.EggLayingFilter{FlockID: flock.ID}, latest)
		if err != nil {
			return nil, fmt.Errorf("failed to list laying records for flock %s: %w", flock.ID, err)
		}
		if len(records) > 0 {
			rec := records[0]
			if rec.LayingRate < lowLayingRateThreshold {
				findings = append(findings, finding{
					key:       "alerts.poultry.low_laying_rate",
					severity:  domain.SeverityHigh,
					titleArgs: []any{flock.Identifier},
					bodyArgs:  []any{flock.Identifier, rec.LayingRate},
					related: map[string]any{
						"flock_id":    flock.ID,
						"laying_rate": rec.LayingRate,
						"record_date": rec.RecordDate,
					},
				})
			}
			if rec.BrokenRate > highBrokenRateThreshold {
				findings = append(findings, finding{
					key:       "alerts.poultry.high_broken_rate",
					severity:  domain.SeverityMedium,
					titleArgs: []any{flock.Identifier},
					bodyArgs:  []any{flock.Identifier, rec.BrokenRate},
					related: map[string]any{
						"flock_id":    flock.ID,
						"broken_rate": rec.BrokenRate,
						"record_date": rec.RecordDate,
					},
				})
			}
		}
	}

	perfs, _, err := s.poultryRepo.ListGrowthPerformances(ctx, flock.ID, latest)
	if err != nil {
		return nil, fmt.Errorf("failed to list growth performances for flock %s: %w", flock.ID, err)
	}
	if len(perfs) > 0 && perfs[0].MortalityRate > highMortalityThreshold {
		findings = append(findings, finding{
			key:       "alerts.poultry.high_mortality",
			severity:  domain.SeverityCritical,
			titleArgs: []any{flock.Identifier},
			bodyArgs:  []any{flock.Identifier, perfs[0].MortalityRate},
			related: map[string]any{
				"flock_id":       flock.ID,
				"mortality_rate": perfs[0].MortalityRate,
				"record_date":    perfs[0].RecordDate,
			},
		})
	}
	return findings, nil
}

// analyzeFishery grades the most recent water reading of each pond and raises
// an alert for poor or critical water.
func (s *analysisService) analyzeFishery(ctx context.Context) ([]finding, error) {
	readings, err := s.fisheryRepo.LatestWaterQualityByPond(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest water readings: %w", err)
	}

	var findings []finding
	for _, reading := range readings {
		grade := reading.Grade
		if grade == "" {
			grade = GradeWaterQuality(reading)
		}
		if grade != domain.WaterPoor && grade != domain.WaterCritical {
			continue
		}
		severity := domain.SeverityHigh
		if grade == domain.WaterCritical {
			severity = domain.SeverityCritical
		}
		pond, err := s.fisheryRepo.GetPondByID(ctx, reading.PondID)
		if err != nil {
			return nil, fmt.Errorf("failed to get pond %s: %w", reading.PondID, err)
		}
		findings = append(findings, finding{
			key:       "alerts.fishery.water_out_of_range",
			severity:  severity,
			titleArgs: []any{pond.Name},
			bodyArgs:  []any{pond.Name, grade, reading.DissolvedOxygen, reading.Ammonia},
			related: map[string]any{
				"pond_id":          pond.ID,
				"grade":            grade,
				"dissolved_oxygen": reading.DissolvedOxygen,
				"ammonia":          reading.Ammonia,
				"measured_at":      reading.MeasuredAt,
			},
		})
	}
	return findings, nil
}

func localizeAll(findings []finding, lang string) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(findings))
	for _, f := range findings {
		alerts = append(alerts, f.localize(lang))
	}
	return alerts
}
