package summary

import (
	"fmt"
	"strings"

	"nayidisha/internal/models"

	"github.com/shopspring/decimal"
)

// Brief builds a short natural-language description of the user's goals and
// recent transactions, suitable as a template variable for the voice
// assistant. The output is truncated to limit characters to bound the
// connect payload.
func Brief(goals []models.Goal, transactions []models.Transaction, limit int) string {
	totalSaved := decimal.Zero
	goalParts := make([]string, 0, len(goals))
	for _, g := range goals {
		totalSaved = totalSaved.Add(g.CurrentAmount)
		pct := int64(0)
		if g.TargetAmount.IsPositive() {
			pct = g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		}
		goalParts = append(goalParts, fmt.Sprintf("%s (%d%% complete)", g.Name, pct))
	}

	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeIncome:
			income = income.Add(t.Amount)
		case models.TransactionTypeExpense:
			expenses = expenses.Add(t.Amount)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User has %d financial goal(s) and %d recent transaction(s). ", len(goals), len(transactions))
	if len(goals) > 0 {
		fmt.Fprintf(&b, "Total saved towards goals: ₹%s. Current goals: %s. ",
			FormatINR(totalSaved), strings.Join(goalParts, ", "))
	}
	if len(transactions) > 0 {
		fmt.Fprintf(&b, "Recent income: ₹%s, Recent expenses: ₹%s.",
			FormatINR(income), FormatINR(expenses))
	}

	out := strings.TrimSpace(b.String())
	if r := []rune(out); limit > 0 && len(r) > limit {
		out = string(r[:limit]) + "..."
	}
	return out
}
