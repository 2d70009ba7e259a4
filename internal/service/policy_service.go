package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GENKAIYIEE/library-backend/internal/models"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
)

type settingRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	List(ctx context.Context, group string) ([]models.Setting, error)
	UpdateValue(ctx context.Context, key, value string) (bool, error)
}

// Policy defaults applied when a setting row is missing.
var (
	defaultStudentPolicy = models.LoanPolicy{Class: models.PatronClassStudent, LoanDays: 7, MaxLoans: 3, FinePerDay: decimal.NewFromInt(5)}
	defaultFacultyPolicy = models.LoanPolicy{Class: models.PatronClassFaculty, LoanDays: 14, MaxLoans: 5, FinePerDay: decimal.Zero}
	defaultLostBookFee   = decimal.NewFromInt(500)
)

const policyCachePrefix = "policy:"

// PolicyService is the settings provider: it resolves per-class loan
// policy from library_settings with a redis-backed cache in front. It is
// injected into the circulation engine, never accessed as a global.
type PolicyService struct {
	repo   settingRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewPolicyService constructs a PolicyService.
func NewPolicyService(repo settingRepository, cache *CacheService, logger *zap.Logger) *PolicyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PolicyService{repo: repo, cache: cache, logger: logger}
}

// PolicyFor resolves the loan policy for a patron class.
func (s *PolicyService) PolicyFor(ctx context.Context, class models.PatronClass) (*models.LoanPolicy, error) {
	if !class.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown patron class %q", class))
	}

	cacheKey := policyCachePrefix + string(class)
	var cached models.LoanPolicy
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	policy := defaultStudentPolicy
	keys := [3]string{models.SettingStudentLoanDays, models.SettingMaxLoansPerStudent, models.SettingStudentFinePerDay}
	if class == models.PatronClassFaculty {
		policy = defaultFacultyPolicy
		keys = [3]string{models.SettingFacultyLoanDays, models.SettingMaxLoansPerFaculty, models.SettingFacultyFinePerDay}
	}

	if days, err := s.intSetting(ctx, keys[0], policy.LoanDays); err != nil {
		return nil, err
	} else {
		policy.LoanDays = days
	}
	if max, err := s.intSetting(ctx, keys[1], policy.MaxLoans); err != nil {
		return nil, err
	} else {
		policy.MaxLoans = max
	}
	if rate, err := s.decimalSetting(ctx, keys[2], policy.FinePerDay); err != nil {
		return nil, err
	} else {
		policy.FinePerDay = rate
	}

	_ = s.cache.Set(ctx, cacheKey, policy, 0)
	return &policy, nil
}

// LoanDays returns the per-class loan period in days.
func (s *PolicyService) LoanDays(ctx context.Context, class models.PatronClass) (int, error) {
	policy, err := s.PolicyFor(ctx, class)
	if err != nil {
		return 0, err
	}
	return policy.LoanDays, nil
}

// MaxLoans returns the per-class concurrent loan limit.
func (s *PolicyService) MaxLoans(ctx context.Context, class models.PatronClass) (int, error) {
	policy, err := s.PolicyFor(ctx, class)
	if err != nil {
		return 0, err
	}
	return policy.MaxLoans, nil
}

// FinePerDay returns the per-class overdue fine rate.
func (s *PolicyService) FinePerDay(ctx context.Context, class models.PatronClass) (decimal.Decimal, error) {
	policy, err := s.PolicyFor(ctx, class)
	if err != nil {
		return decimal.Zero, err
	}
	return policy.FinePerDay, nil
}

// LostBookDefaultFee is charged when a lost title has no recorded price.
func (s *PolicyService) LostBookDefaultFee(ctx context.Context) (decimal.Decimal, error) {
	return s.decimalSetting(ctx, models.SettingLostBookDefaultFee, defaultLostBookFee)
}

// List returns settings, optionally scoped to a group.
func (s *PolicyService) List(ctx context.Context, group string) ([]models.Setting, error) {
	settings, err := s.repo.List(ctx, group)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list settings")
	}
	return settings, nil
}

// BulkUpdate applies value changes to existing keys and invalidates the
// policy cache. Unknown keys are skipped; the count of applied updates
// is returned.
func (s *PolicyService) BulkUpdate(ctx context.Context, values map[string]string) (int, error) {
	updated := 0
	for key, value := range values {
		ok, err := s.repo.UpdateValue(ctx, key, value)
		if err != nil {
			return updated, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update setting")
		}
		if ok {
			updated++
		}
	}
	if updated > 0 {
		if err := s.cache.Invalidate(ctx, policyCachePrefix+"*"); err != nil {
			s.logger.Warn("policy cache invalidation failed", zap.Error(err))
		}
	}
	return updated, nil
}

func (s *PolicyService) intSetting(ctx context.Context, key string, fallback int) (int, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fallback, nil
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load setting")
	}
	value, err := strconv.Atoi(setting.Value)
	if err != nil {
		s.logger.Warn("setting is not an integer, using default", zap.String("key", key), zap.String("value", setting.Value))
		return fallback, nil
	}
	return value, nil
}

func (s *PolicyService) decimalSetting(ctx context.Context, key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fallback, nil
		}
		return decimal.Zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load setting")
	}
	value, err := decimal.NewFromString(setting.Value)
	if err != nil {
		s.logger.Warn("setting is not a decimal, using default", zap.String("key", key), zap.String("value", setting.Value))
		return fallback, nil
	}
	return value, nil
}
