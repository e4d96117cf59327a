package services

import (
	"context"
	"fmt"
	"time"

	"campusperks/internal/models"
	"campusperks/internal/repositories/interfaces"
	"campusperks/internal/utils"
	"campusperks/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatsService aggregates ledger activity into dashboard numbers. All
// counts respect the caller's scope the same way listing does.
type StatsService interface {
	RedemptionStats(ctx context.Context, principalID primitive.ObjectID, roles models.RoleSet) (*models.RedemptionStats, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

type statsService struct {
	redemptionRepo interfaces.RedemptionRepository
	userRepo       interfaces.UserRepository
	cache          CacheService
	logger         *logger.Logger

	// now is injectable so bucket boundaries are testable.
	now func() time.Time
}

func NewStatsService(
	redemptionRepo interfaces.RedemptionRepository,
	userRepo interfaces.UserRepository,
	cache CacheService,
	log *logger.Logger,
) StatsService {
	return &statsService{
		redemptionRepo: redemptionRepo,
		userRepo:       userRepo,
		cache:          cache,
		logger:         log,
		now:            time.Now,
	}
}

func (s *statsService) RedemptionStats(ctx context.Context, principalID primitive.ObjectID, roles models.RoleSet) (*models.RedemptionStats, error) {
	scope := scopeForPrincipal(principalID, roles)
	now := s.now()

	today := startOfDay(now)
	week := startOfWeek(now)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &models.RedemptionStats{}
	var err error

	if stats.Today, err = s.redemptionRepo.CountSince(ctx, scope, today); err != nil {
		return nil, err
	}
	if stats.ThisWeek, err = s.redemptionRepo.CountSince(ctx, scope, week); err != nil {
		return nil, err
	}
	if stats.ThisMonth, err = s.redemptionRepo.CountSince(ctx, scope, month); err != nil {
		return nil, err
	}
	if stats.AllTime, err = s.redemptionRepo.CountSince(ctx, scope, time.Time{}); err != nil {
		return nil, err
	}

	stats.ByBenefit, err = s.redemptionRepo.CountByBenefit(ctx, scope, utils.MaxStatsBenefits)
	if err != nil {
		return nil, err
	}
	if stats.ByBenefit == nil {
		stats.ByBenefit = []models.BenefitUsageCount{}
	}

	return stats, nil
}

func (s *statsService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 || limit > utils.MaxLeaderboardSize {
		limit = utils.DefaultLeaderboardSize
	}

	cacheKey := fmt.Sprintf("leaderboard_%d", limit)
	if s.cache != nil {
		var cached []*models.LeaderboardEntry
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && cached != nil {
			return cached, nil
		}
	}

	entries, err := s.userRepo.GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, entries, utils.LeaderboardCacheTTL); err != nil {
			s.logger.WithError(err).Warn("failed to cache leaderboard")
		}
	}

	return entries, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek treats Monday as the first day of the week.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}
