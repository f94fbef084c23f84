package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/model"
)

const expenseOrder = "occurred_on DESC, id DESC"

// ExpenseRepository defines expense persistence operations. Lists are
// ordered newest date first, ties broken by identifier descending.
type ExpenseRepository interface {
	ListAll(ctx context.Context) ([]model.Expense, error)
	ListByDateRange(ctx context.Context, start, end model.Date) ([]model.Expense, error)
	FindByID(ctx context.Context, id int64) (*model.Expense, error)
	Create(ctx context.Context, fields model.ExpenseFields, occurredOn model.Date) (*model.Expense, error)
	Update(ctx context.Context, id int64, fields model.ExpenseFields) (*model.Expense, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type expenseRepository struct {
	store
	now func() time.Time
}

// NewExpenseRepository creates a new expense repository. Each call is bounded
// by timeout.
func NewExpenseRepository(db *gorm.DB, timeout time.Duration) ExpenseRepository {
	return &expenseRepository{store: newStore(db, timeout), now: time.Now}
}

// ListAll returns every expense.
func (r *expenseRepository) ListAll(ctx context.Context) ([]model.Expense, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	expenses := []model.Expense{}
	if err := db.Order(expenseOrder).Find(&expenses).Error; err != nil {
		return nil, translate("list expenses", err)
	}
	return expenses, nil
}

// ListByDateRange returns expenses dated within [start, end].
func (r *expenseRepository) ListByDateRange(ctx context.Context, start, end model.Date) ([]model.Expense, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	expenses := []model.Expense{}
	if err := db.Where("occurred_on >= ? AND occurred_on <= ?", start, end).
		Order(expenseOrder).
		Find(&expenses).Error; err != nil {
		return nil, translate("list expenses by date", err)
	}
	return expenses, nil
}

// FindByID finds an expense by ID.
func (r *expenseRepository) FindByID(ctx context.Context, id int64) (*model.Expense, error) {
	db, cancel := r.conn(ctx)
	defer cancel()
	return findExpense(db, id)
}

// Create inserts an expense. A zero occurredOn means today.
func (r *expenseRepository) Create(ctx context.Context, fields model.ExpenseFields, occurredOn model.Date) (*model.Expense, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	if occurredOn.IsZero() {
		occurredOn = model.DateOf(r.now())
	}
	expense := &model.Expense{
		Description:   fields.Description,
		Category:      fields.Category,
		Amount:        fields.Amount,
		PaymentMethod: fields.PaymentMethod,
		OccurredOn:    occurredOn,
	}
	if err := db.Create(expense).Error; err != nil {
		return nil, translate("create expense", err)
	}
	return expense, nil
}

// Update replaces the mutable fields of an expense in place. The date is
// left untouched.
func (r *expenseRepository) Update(ctx context.Context, id int64, fields model.ExpenseFields) (*model.Expense, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var updated *model.Expense
	err := db.Transaction(func(tx *gorm.DB) error {
		expense, err := findExpense(tx, id)
		if err != nil {
			return err
		}
		expense.Description = fields.Description
		expense.Category = fields.Category
		expense.Amount = fields.Amount
		expense.PaymentMethod = fields.PaymentMethod

		if err := tx.Model(expense).
			Select("Description", "Category", "Amount", "PaymentMethod").
			Updates(expense).Error; err != nil {
			return err
		}
		updated = expense
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, translate("update expense", err)
	}
	return updated, nil
}

// Delete removes an expense and reports whether it existed.
func (r *expenseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Delete(&model.Expense{}, id)
	if res.Error != nil {
		return false, translate("delete expense", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func findExpense(db *gorm.DB, id int64) (*model.Expense, error) {
	var expense model.Expense
	if err := db.First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translate("find expense", err)
	}
	return &expense, nil
}
