// Package summary computes financial summaries from a user's transactions
// and goals. All functions are pure: no I/O, no clock access except through
// the explicit reference time, decimal-safe arithmetic throughout.
package summary

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"nayidisha/internal/models"
)

// daysPerMonth is the approximation used for goal pacing.
const daysPerMonth = 30

// CategoryBreakdown is the summed spend for one expense category.
type CategoryBreakdown struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  int64           `json:"percent"`
}

// GoalProgress is the computed progress and pacing for one goal.
type GoalProgress struct {
	GoalID             string          `json:"goal_id"`
	Name               string          `json:"name"`
	CurrentAmount      decimal.Decimal `json:"current_amount"`
	TargetAmount       decimal.Decimal `json:"target_amount"`
	TargetDate         time.Time       `json:"target_date"`
	ProgressPercent    int64           `json:"progress_percent"`
	Remaining          decimal.Decimal `json:"remaining"`
	MonthsRemaining    int             `json:"months_remaining"`
	RecommendedMonthly decimal.Decimal `json:"recommended_monthly"`
}

// Summary is the aggregate view of a user's financial state.
type Summary struct {
	TotalIncome        decimal.Decimal     `json:"total_income"`
	TotalExpenses      decimal.Decimal     `json:"total_expenses"`
	NetFlow            decimal.Decimal     `json:"net_flow"`
	ExpensesByCategory []CategoryBreakdown `json:"expenses_by_category"`
	Goals              []GoalProgress      `json:"goals"`
	TransactionCount   int                 `json:"transaction_count"`
	GoalCount          int                 `json:"goal_count"`
	HasData            bool                `json:"has_data"`
}

// Compute aggregates transactions and goals as of now.
func Compute(transactions []models.Transaction, goals []models.Goal) Summary {
	return ComputeAt(time.Now(), transactions, goals)
}

// ComputeAt aggregates transactions and goals using the given reference time
// for goal pacing. Empty inputs yield an all-zero summary with HasData false.
func ComputeAt(now time.Time, transactions []models.Transaction, goals []models.Goal) Summary {
	s := Summary{
		TotalIncome:      decimal.Zero,
		TotalExpenses:    decimal.Zero,
		NetFlow:          decimal.Zero,
		TransactionCount: len(transactions),
		GoalCount:        len(goals),
		HasData:          len(transactions) > 0 || len(goals) > 0,
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case models.TransactionTypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			cat := t.Category
			if cat == "" {
				cat = "Other"
			}
			byCategory[cat] = byCategory[cat].Add(t.Amount)
		}
	}
	s.NetFlow = s.TotalIncome.Sub(s.TotalExpenses)

	s.ExpensesByCategory = make([]CategoryBreakdown, 0, len(byCategory))
	for cat, amount := range byCategory {
		s.ExpensesByCategory = append(s.ExpensesByCategory, CategoryBreakdown{
			Category: cat,
			Amount:   amount,
			Percent:  percentOf(amount, s.TotalExpenses),
		})
	}
	// Deterministic order: largest spend first, name as tiebreak.
	sort.Slice(s.ExpensesByCategory, func(i, j int) bool {
		a, b := s.ExpensesByCategory[i], s.ExpensesByCategory[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Category < b.Category
	})

	s.Goals = make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		s.Goals = append(s.Goals, goalProgressAt(now, g))
	}

	return s
}

func goalProgressAt(now time.Time, g models.Goal) GoalProgress {
	p := GoalProgress{
		GoalID:             g.ID,
		Name:               g.Name,
		CurrentAmount:      g.CurrentAmount,
		TargetAmount:       g.TargetAmount,
		TargetDate:         g.TargetDate,
		Remaining:          decimal.Zero,
		RecommendedMonthly: decimal.Zero,
	}

	if g.TargetAmount.IsPositive() {
		pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		p.ProgressPercent = pct
	}

	if remaining := g.TargetAmount.Sub(g.CurrentAmount); remaining.IsPositive() {
		p.Remaining = remaining
	}

	if !g.TargetDate.IsZero() {
		p.MonthsRemaining = monthsUntil(now, g.TargetDate)
		if p.Remaining.IsPositive() {
			months := decimal.NewFromInt(int64(p.MonthsRemaining))
			p.RecommendedMonthly = p.Remaining.Div(months).Ceil()
		}
	}

	return p
}

// monthsUntil returns the number of 30-day months between now and target,
// rounded up and floored at 1 so due or overdue goals never divide by zero.
func monthsUntil(now, target time.Time) int {
	hours := target.Sub(now).Hours()
	months := int(math.Ceil(hours / (24 * daysPerMonth)))
	if months < 1 {
		return 1
	}
	return months
}

func percentOf(part, total decimal.Decimal) int64 {
	if !total.IsPositive() {
		return 0
	}
	return part.Mul(decimal.NewFromInt(100)).Div(total).Round(0).IntPart()
}

// FormatINR renders an amount with Indian digit grouping, e.g. 2500000 -> "25,00,000".
// Non-zero paise are kept with two decimal places.
func FormatINR(d decimal.Decimal) string {
	frac := ""
	if !d.Equal(d.Truncate(0)) {
		s := d.StringFixed(2)
		frac = s[strings.LastIndex(s, "."):]
	}

	intPart := d.Truncate(0).String()
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + frac
	}

	// Last three digits form one group; the rest are grouped in pairs.
	var groups []string
	groups = append(groups, intPart[len(intPart)-3:])
	rest := intPart[:len(intPart)-3]
	for len(rest) > 2 {
		groups = append(groups, rest[len(rest)-2:])
		rest = rest[:len(rest)-2]
	}
	if rest != "" {
		groups = append(groups, rest)
	}

	var b strings.Builder
	b.WriteString(sign)
	for i := len(groups) - 1; i >= 0; i-- {
		b.WriteString(groups[i])
		if i > 0 {
			b.WriteByte(',')
		}
	}
	b.WriteString(frac)
	return b.String()
}
