package model

// Expense is a single bookkeeping entry. Amount is kept as the caller sent it.
type Expense struct {
	ID            int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Description   string  `json:"description" gorm:"size:100;not null"`
	Category      string  `json:"category" gorm:"size:50;not null"`
	Amount        string  `json:"amount" gorm:"column:amount_text;size:20;not null"`
	PaymentMethod *string `json:"paymentMethod" gorm:"size:50"`
	OccurredOn    Date    `json:"date" gorm:"not null;index"`
}

// TableName pins the table name.
func (Expense) TableName() string {
	return "expenses"
}

// ExpenseFields are the caller-controlled fields of an expense.
type ExpenseFields struct {
	Description   string
	Category      string
	Amount        string
	PaymentMethod *string
}
