package service

import (
	"time"

	"expensetracker/internal/model"
)

// MonthRange returns the first and last calendar day of a month.
func MonthRange(year int, month time.Month) (start, end model.Date) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return model.DateOf(first), model.DateOf(last)
}
