package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GENKAIYIEE/library-backend/internal/models"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
)

type mockSettingRepo struct {
	settings map[string]*models.Setting
	getCalls int
}

func (m *mockSettingRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	m.getCalls++
	if s, ok := m.settings[key]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSettingRepo) List(ctx context.Context, group string) ([]models.Setting, error) {
	var out []models.Setting
	for _, s := range m.settings {
		if group == "" || s.Group == group {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSettingRepo) UpdateValue(ctx context.Context, key, value string) (bool, error) {
	if s, ok := m.settings[key]; ok {
		s.Value = value
		return true, nil
	}
	return false, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func setting(key, value string) *models.Setting {
	return &models.Setting{Key: key, Value: value, Type: models.SettingTypeString, Group: "circulation"}
}

func newPolicy(repo *mockSettingRepo, cacheRepo CacheRepository) *PolicyService {
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, nil, cacheRepo != nil)
	return NewPolicyService(repo, cacheSvc, nil)
}

func TestPolicyDefaultsWhenUnset(t *testing.T) {
	svc := newPolicy(&mockSettingRepo{settings: map[string]*models.Setting{}}, nil)

	student, err := svc.PolicyFor(context.Background(), models.PatronClassStudent)
	require.NoError(t, err)
	assert.Equal(t, 7, student.LoanDays)
	assert.Equal(t, 3, student.MaxLoans)
	assert.True(t, student.FinePerDay.Equal(decimal.NewFromInt(5)))

	faculty, err := svc.PolicyFor(context.Background(), models.PatronClassFaculty)
	require.NoError(t, err)
	assert.Equal(t, 14, faculty.LoanDays)
	assert.Equal(t, 5, faculty.MaxLoans)
	assert.True(t, faculty.FinePerDay.IsZero())

	fee, err := svc.LostBookDefaultFee(context.Background())
	require.NoError(t, err)
	assert.True(t, fee.Equal(decimal.NewFromInt(500)))
}

func TestPolicyReadsSettings(t *testing.T) {
	repo := &mockSettingRepo{settings: map[string]*models.Setting{
		models.SettingStudentLoanDays:    setting(models.SettingStudentLoanDays, "10"),
		models.SettingMaxLoansPerStudent: setting(models.SettingMaxLoansPerStudent, "2"),
		models.SettingStudentFinePerDay:  setting(models.SettingStudentFinePerDay, "7.50"),
	}}
	svc := newPolicy(repo, nil)

	policy, err := svc.PolicyFor(context.Background(), models.PatronClassStudent)
	require.NoError(t, err)
	assert.Equal(t, 10, policy.LoanDays)
	assert.Equal(t, 2, policy.MaxLoans)
	assert.True(t, policy.FinePerDay.Equal(decimal.RequireFromString("7.50")))
}

func TestPolicyFallsBackOnUnparsableValue(t *testing.T) {
	repo := &mockSettingRepo{settings: map[string]*models.Setting{
		models.SettingStudentLoanDays: setting(models.SettingStudentLoanDays, "not-a-number"),
	}}
	svc := newPolicy(repo, nil)

	policy, err := svc.PolicyFor(context.Background(), models.PatronClassStudent)
	require.NoError(t, err)
	assert.Equal(t, 7, policy.LoanDays)
}

func TestPolicyRejectsUnknownClass(t *testing.T) {
	svc := newPolicy(&mockSettingRepo{}, nil)
	_, err := svc.PolicyFor(context.Background(), models.PatronClass("ALIEN"))
	assertAppError(t, err, appErrors.ErrValidation)
}

func TestPolicyCachesAfterFirstResolve(t *testing.T) {
	repo := &mockSettingRepo{settings: map[string]*models.Setting{
		models.SettingStudentLoanDays: setting(models.SettingStudentLoanDays, "9"),
	}}
	cacheRepo := newMemoryCacheRepo()
	svc := newPolicy(repo, cacheRepo)

	first, err := svc.PolicyFor(context.Background(), models.PatronClassStudent)
	require.NoError(t, err)
	callsAfterFirst := repo.getCalls

	second, err := svc.PolicyFor(context.Background(), models.PatronClassStudent)
	require.NoError(t, err)

	assert.Equal(t, first.LoanDays, second.LoanDays)
	assert.Equal(t, callsAfterFirst, repo.getCalls, "second resolve must hit the cache")
}

func TestBulkUpdateInvalidatesCache(t *testing.T) {
	repo := &mockSettingRepo{settings: map[string]*models.Setting{
		models.SettingStudentLoanDays: setting(models.SettingStudentLoanDays, "7"),
	}}
	cacheRepo := newMemoryCacheRepo()
	svc := newPolicy(repo, cacheRepo)

	_, err := svc.PolicyFor(context.Background(), models.PatronClassStudent)
	require.NoError(t, err)
	require.NotEmpty(t, cacheRepo.entries)

	updated, err := svc.BulkUpdate(context.Background(), map[string]string{
		models.SettingStudentLoanDays: "21",
		"unknown_key":                 "x",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Empty(t, cacheRepo.entries)

	policy, err := svc.PolicyFor(context.Background(), models.PatronClassStudent)
	require.NoError(t, err)
	assert.Equal(t, 21, policy.LoanDays)
}
