package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"stockroom-api/internal/model"
)

const chatSystemPrompt = `You are an expert inventory management assistant.
Answer questions about the user's inventory using only the data below. Be concise,
use plain numbers and currency where relevant, and say so when the data cannot answer
the question.

Current inventory (JSON):
%s`

const auditSystemPrompt = `You are an expert inventory analyst. Review the inventory and report:
items that are low on stock or out of stock, items whose status does not match their
quantity, records with missing or suspicious data (empty supplier, zero price, vague
descriptions), and concrete recommendations. Use short sections with bullet points.`

const forecastSystemPrompt = `You are a supply chain analyst. Based on the item's current quantity and its sales history, predict when it will run out of stock.
Provide a concise, human-readable forecast (e.g., "in ~3 weeks", "in ~2 months", "by late August").
If sales history is unavailable or insufficient, state that you cannot make a prediction.
Respond with only the prediction and nothing else.`

const describeSystemPrompt = `You are a professional copywriter for a business supply catalogue.
Write a single compelling product description of one or two sentences. Respond with
the description only, without quotes or a heading.`

var categorySystemPrompt = `You are an inventory categorization expert. Pick the single best category
for the item from this list: ` + strings.Join(model.Categories, ", ") + `.
Respond with the category name exactly as written and nothing else.`

// prompt is the system and user text sent for one task.
type prompt struct {
	system string
	user   string
	// history replaces user for chat tasks.
	history []Message
}

func buildPrompt(t Task) (prompt, error) {
	switch t := t.(type) {
	case Chat:
		inv, err := indentJSON(t.Inventory)
		if err != nil {
			return prompt{}, err
		}
		return prompt{system: fmt.Sprintf(chatSystemPrompt, inv), history: t.Messages}, nil

	case Audit:
		inv, err := indentJSON(t.Inventory)
		if err != nil {
			return prompt{}, err
		}
		return prompt{system: auditSystemPrompt, user: "Please audit the following inventory: " + inv}, nil

	case Forecast:
		info, err := indentJSON(ItemInfo{Name: t.Name, Quantity: &t.Quantity, SalesHistory: t.SalesHistory})
		if err != nil {
			return prompt{}, err
		}
		return prompt{system: forecastSystemPrompt, user: "Forecast restock for item: " + info}, nil

	case Describe:
		return prompt{
			system: describeSystemPrompt,
			user:   fmt.Sprintf("Generate a description for the item: Name: %q, Category: %q.", t.Name, t.Category),
		}, nil

	case SuggestCategory:
		return prompt{system: categorySystemPrompt, user: fmt.Sprintf("Suggest a category for the item: %q.", t.Name)}, nil
	}
	return prompt{}, ErrInvalidTask
}

func indentJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding prompt payload: %w", err)
	}
	return string(data), nil
}
