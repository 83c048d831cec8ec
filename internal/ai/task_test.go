package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnknownTask(t *testing.T) {
	_, err := Parse([]byte(`{"task":"bogus"}`))
	assert.ErrorIs(t, err, ErrInvalidTask)
	assert.True(t, IsClientError(err))

	_, err = Parse([]byte(`{"inventory":[]}`))
	assert.ErrorIs(t, err, ErrInvalidTask, "missing tag is an invalid task")
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"task":`))
	assert.ErrorIs(t, err, ErrMalformedRequest)
	assert.True(t, IsClientError(err))
}

func TestParseMissingFields(t *testing.T) {
	tests := []struct {
		body  string
		field string
	}{
		{`{"task":"chat","inventory":[]}`, "messages"},
		{`{"task":"chat","messages":[]}`, "inventory"},
		{`{"task":"chat","messages":null,"inventory":[]}`, "messages"},
		{`{"task":"audit-inventory"}`, "inventory"},
		{`{"task":"forecast-restock"}`, "itemInfo"},
		{`{"task":"forecast-restock","itemInfo":{"name":"Mouse"}}`, "itemInfo.quantity"},
		{`{"task":"generate-description","itemInfo":{}}`, "itemInfo.name"},
		{`{"task":"suggest-category"}`, "itemInfo"},
	}

	for _, tt := range tests {
		_, err := Parse([]byte(tt.body))
		var missing *MissingFieldError
		if assert.ErrorAs(t, err, &missing, tt.body) {
			assert.Equal(t, tt.field, missing.Field, tt.body)
			assert.Contains(t, err.Error(), tt.field)
		}
	}
}

func TestParseVariants(t *testing.T) {
	task, err := Parse([]byte(`{"task":"chat","messages":[{"role":"user","content":"hi","id":"m1"}],"inventory":[{"id":"1","name":"Laptop"}]}`))
	require.NoError(t, err)
	chat, ok := task.(Chat)
	require.True(t, ok)
	assert.Equal(t, []Message{{Role: "user", Content: "hi"}}, chat.Messages)
	assert.Equal(t, "Laptop", chat.Inventory[0].Name)

	task, err = Parse([]byte(`{"task":"forecast-restock","itemInfo":{"name":"Mouse","quantity":0,"salesHistory":[{"date":"2024-05-01","quantitySold":4}]}}`))
	require.NoError(t, err)
	assert.Equal(t, Forecast{Name: "Mouse", Quantity: 0, SalesHistory: task.(Forecast).SalesHistory}, task)
	assert.Len(t, task.(Forecast).SalesHistory, 1)

	task, err = Parse([]byte(`{"task":"generate-description","itemInfo":{"name":"Desk","category":"Furniture"}}`))
	require.NoError(t, err)
	assert.Equal(t, Describe{Name: "Desk", Category: "Furniture"}, task)

	task, err = Parse([]byte(`{"task":"suggest-category","itemInfo":{"name":"Desk","category":""}}`))
	require.NoError(t, err)
	assert.Equal(t, SuggestCategory{Name: "Desk"}, task)
	assert.Equal(t, KindSuggestCategory, task.Kind())
}

func TestCheckCategory(t *testing.T) {
	label, ok := CheckCategory("  \"Office Supplies\"\n")
	assert.True(t, ok)
	assert.Equal(t, "Office Supplies", label)

	label, ok = CheckCategory("Kitchenware")
	assert.False(t, ok)
	assert.Equal(t, "Kitchenware", label)
}
