package llm

import (
	"encoding/json"
	"fmt"

	"github.com/MoneNarendra/unibudget/internal/model"
)

const systemPrompt = "You are a friendly financial advisor for a university student. " +
	"Keep answers short, concrete and encouraging."

// promptTransaction is the trimmed view of a transaction sent to the model.
// IDs and notes stay local.
type promptTransaction struct {
	Date     string `json:"date"`
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Method   string `json:"method"`
}

// BuildPrompt renders the advice request for txns.
func BuildPrompt(txns []model.Transaction) (Request, error) {
	rows := make([]promptTransaction, len(txns))
	for i, t := range txns {
		rows[i] = promptTransaction{
			Date:     t.Date.Format("2006-01-02"),
			Type:     string(t.Type),
			Amount:   t.Amount.String(),
			Category: t.Category,
			Method:   string(t.Method),
		}
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return Request{}, fmt.Errorf("failed to encode transactions: %w", err)
	}

	prompt := fmt.Sprintf(`Analyze these recent transactions of a university student.
The currency is Indian Rupees (INR, ₹).

Transactions:
%s

Give 3 short, actionable tips to help them save money or manage their budget better.
Spot spending patterns (for example too much on food or fun).
Format the answer as Markdown bullet points and use emojis to make it engaging.`, data)

	return Request{System: systemPrompt, Prompt: prompt}, nil
}
