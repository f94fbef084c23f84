package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"expensetracker/internal/cache"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/model"
	"expensetracker/internal/repository"
)

const (
	// DefaultListCacheTTL bounds how long a cached list may be served.
	DefaultListCacheTTL = 30 * time.Second

	generationKey = "expenses:generation"
)

// ExpenseService handles expense operations.
type ExpenseService interface {
	List(ctx context.Context) ([]model.Expense, error)
	ListByMonth(ctx context.Context, year int, month time.Month) ([]model.Expense, error)
	Create(ctx context.Context, fields model.ExpenseFields, occurredOn model.Date) (*model.Expense, error)
	Update(ctx context.Context, id int64, fields model.ExpenseFields) (*model.Expense, error)
	Delete(ctx context.Context, id int64) error
}

type expenseService struct {
	repo  repository.ExpenseRepository
	cache *cache.Client
	ttl   time.Duration
}

// NewExpenseService creates a new expense service. A nil cache disables list
// caching.
func NewExpenseService(repo repository.ExpenseRepository, cache *cache.Client, ttl time.Duration) ExpenseService {
	if ttl <= 0 {
		ttl = DefaultListCacheTTL
	}
	return &expenseService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

// List returns every expense, newest first.
func (s *expenseService) List(ctx context.Context) ([]model.Expense, error) {
	return s.cached(ctx, "all", func() ([]model.Expense, error) {
		return s.repo.ListAll(ctx)
	})
}

// ListByMonth returns the expenses dated within the given month.
func (s *expenseService) ListByMonth(ctx context.Context, year int, month time.Month) ([]model.Expense, error) {
	start, end := MonthRange(year, month)
	key := fmt.Sprintf("month:%04d-%02d", year, int(month))
	return s.cached(ctx, key, func() ([]model.Expense, error) {
		return s.repo.ListByDateRange(ctx, start, end)
	})
}

// Create records a new expense. A zero occurredOn means today.
func (s *expenseService) Create(ctx context.Context, fields model.ExpenseFields, occurredOn model.Date) (*model.Expense, error) {
	expense, err := s.repo.Create(ctx, fields, occurredOn)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return expense, nil
}

// Update replaces the fields of an existing expense.
func (s *expenseService) Update(ctx context.Context, id int64, fields model.ExpenseFields) (*model.Expense, error) {
	expense, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return expense, nil
}

// Delete removes an expense. An unknown id yields ErrNotFound.
func (s *expenseService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

// cached serves a list from the cache under the current generation, filling
// it from load on a miss.
func (s *expenseService) cached(ctx context.Context, name string, load func() ([]model.Expense, error)) ([]model.Expense, error) {
	if !s.cache.Enabled() {
		return load()
	}

	key := s.cacheKey(ctx, name)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var expenses []model.Expense
		if err := json.Unmarshal(data, &expenses); err == nil {
			return expenses, nil
		}
	}

	expenses, err := load()
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(expenses); err == nil {
		_ = s.cache.Set(ctx, key, payload, s.ttl)
	}
	return expenses, nil
}

func (s *expenseService) cacheKey(ctx context.Context, name string) string {
	var generation int64
	if data, _ := s.cache.Get(ctx, generationKey); data != nil {
		generation, _ = strconv.ParseInt(string(data), 10, 64)
	}
	return fmt.Sprintf("expenses:%d:%s", generation, name)
}

// invalidate retires every cached list by moving to a new generation.
func (s *expenseService) invalidate(ctx context.Context) {
	s.cache.Incr(ctx, generationKey)
}
