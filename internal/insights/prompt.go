package insights

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nayidisha/internal/models"
)

// buildPrompt constructs the instruction for the model: the serialized
// transactions and goals plus a strict formatting template for the
// six-section markdown report.
func buildPrompt(now time.Time, transactions []models.Transaction, goals []models.Goal) string {
	txJSON, err := json.MarshalIndent(transactions, "", "  ")
	if err != nil {
		txJSON = []byte("[]")
	}
	goalJSON, err := json.MarshalIndent(goals, "", "  ")
	if err != nil {
		goalJSON = []byte("[]")
	}

	var b strings.Builder
	b.WriteString("You are an expert financial advisor providing personalized financial insights.\n\n")
	b.WriteString("Analyze the following financial data and create a detailed report in markdown format:\n\n")
	b.WriteString("TRANSACTIONS:\n")
	b.Write(txJSON)
	b.WriteString("\n\nFINANCIAL GOALS:\n")
	b.Write(goalJSON)
	b.WriteString("\n\nYour report should be well-structured with markdown headings, bullet points, and formatting.\n\n")
	fmt.Fprintf(&b, "Start with a header including the date: # Financial Health Report - %s\n\n", now.Format("January 2, 2006"))
	b.WriteString("Then include the following sections:\n\n")
	b.WriteString("## 1. Summary Overview\n")
	b.WriteString("A concise, high-level assessment of the financial situation. Highlight key strengths and areas of concern.\n\n")
	b.WriteString("## 2. Spending Patterns\n")
	b.WriteString("Analysis of spending habits with specific amounts and percentages:\n")
	b.WriteString("* **Income:** Provide exact income amounts with sources (use code formatting with backticks)\n")
	b.WriteString("* **Expenses:** Break down expenses by category with amounts and percentages\n\n")
	b.WriteString("> Use blockquotes to emphasize important insights about income vs expenses\n\n")
	b.WriteString("## 3. Goal Progress Analysis\n")
	b.WriteString("For each goal, assess progress with visual indicators and specific recommendations:\n")
	b.WriteString("* Progress towards each goal with exact amounts and percentages\n")
	b.WriteString("* Monthly savings needed to reach each goal on time\n\n")
	b.WriteString("## 4. Monthly Budget Recommendations\n")
	b.WriteString("Present a clear budget breakdown using a **markdown table** to achieve goals faster:\n")
	b.WriteString("| Category | Recommended Budget |\n")
	b.WriteString("|----------|-------------------|\n")
	b.WriteString("| Category 1 | Amount |\n\n")
	b.WriteString("## 5. Areas of Improvement\n")
	b.WriteString("Specific expenses that could be reduced with actionable tips.\n\n")
	b.WriteString("## 6. Action Steps\n")
	b.WriteString("Numbered, concrete next steps with clear prioritization.\n\n")
	b.WriteString("Use a separator (--------) between each major section.\n\n")
	b.WriteString("FORMATTING GUIDELINES:\n")
	b.WriteString("- Use **bold** for emphasis on important numbers and concepts\n")
	b.WriteString("- Use `code format` for all monetary amounts\n")
	b.WriteString("- Use > blockquotes for key insights\n")
	b.WriteString("- Use headings with ## and ###\n")
	b.WriteString("- Use bullet lists with * for most points\n")
	b.WriteString("- Use numbered lists (1. 2. 3.) for action steps\n")
	b.WriteString("- Use horizontal rules (---) to separate sections\n\n")
	b.WriteString("Make your report visually structured and easy to scan. Be specific, using exact amounts and percentages rather than general statements.\n")
	return b.String()
}
