package insights

import (
	"fmt"
	"strings"

	"nayidisha/internal/summary"
)

const noDataMarkdown = `## No Data Available Yet

Please add some transactions and financial goals to get personalized insights.

Here are some steps to get started:
1. Add your financial goals on the dashboard
2. Record your expenses and income
3. Check back for personalized financial analysis`

// renderFallback renders the aggregated summary as markdown. It mirrors the
// shape of the AI report but is fully deterministic: the same inputs always
// produce the same figures.
func renderFallback(s summary.Summary) string {
	var b strings.Builder

	b.WriteString("## Financial Insights Summary\n\n")
	fmt.Fprintf(&b, "You have %d transaction(s) and %d financial goal(s).\n\n", s.TransactionCount, s.GoalCount)

	b.WriteString("### Summary Overview\n\n")
	fmt.Fprintf(&b, "- Total Income: ₹%s\n", summary.FormatINR(s.TotalIncome))
	fmt.Fprintf(&b, "- Total Expenses: ₹%s\n", summary.FormatINR(s.TotalExpenses))
	fmt.Fprintf(&b, "- Net Savings: ₹%s\n", summary.FormatINR(s.NetFlow))
	if s.NetFlow.Sign() >= 0 {
		b.WriteString("- **Positive Balance**: You are spending within your means.\n")
	} else {
		b.WriteString("- **Negative Balance**: Your expenses exceed your income.\n")
	}

	b.WriteString("\n### Spending Patterns\n\n")
	if len(s.ExpensesByCategory) > 0 {
		b.WriteString("Your spending by category:\n\n")
		for _, c := range s.ExpensesByCategory {
			fmt.Fprintf(&b, "- **%s**: ₹%s (%d%% of expenses)\n", c.Category, summary.FormatINR(c.Amount), c.Percent)
		}
	} else {
		b.WriteString("No expense transactions recorded yet.\n")
	}

	b.WriteString("\n### Goal Progress Analysis\n\n")
	if len(s.Goals) > 0 {
		for i, g := range s.Goals {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "- **%s** - ₹%s/₹%s (%d%% complete)\n",
				g.Name, summary.FormatINR(g.CurrentAmount), summary.FormatINR(g.TargetAmount), g.ProgressPercent)
			fmt.Fprintf(&b, "   - Target date: %s\n", g.TargetDate.Format("02/01/2006"))
			if g.RecommendedMonthly.IsPositive() {
				fmt.Fprintf(&b, "   - **Recommendation**: Save approximately ₹%s per month to reach your goal on time\n",
					summary.FormatINR(g.RecommendedMonthly))
			}
		}
	} else {
		b.WriteString("No goals set yet. Add financial goals to track your progress.\n")
	}

	b.WriteString("\n### Recommendations\n\n")
	if s.NetFlow.Sign() < 0 {
		b.WriteString("1. Reduce expenses or increase income to achieve a positive balance\n")
	} else {
		b.WriteString("1. Continue maintaining a positive balance\n")
	}
	if s.TotalExpenses.IsZero() {
		b.WriteString("2. Start tracking your expenses to get better insights\n")
	} else {
		b.WriteString("2. Monitor your highest expense categories for potential savings\n")
	}
	if s.GoalCount == 0 {
		b.WriteString("3. Set specific financial goals with target dates\n")
	} else {
		b.WriteString("3. Regularly contribute to your financial goals\n")
	}
	b.WriteString("4. Create an emergency fund of 3-6 months of expenses\n")

	b.WriteString("\n> **Note**: This is a locally generated summary based on your data. It provides a basic analysis of your financial situation.")

	return b.String()
}
