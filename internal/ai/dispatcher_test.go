package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"stockroom-api/internal/model"
)

type recordingObserver struct {
	outcomes []string
}

func (r *recordingObserver) ObserveTask(kind Kind, outcome string, elapsed time.Duration) {
	r.outcomes = append(r.outcomes, string(kind)+":"+outcome)
}

func TestTextSingleShot(t *testing.T) {
	gen := &fakeGenerator{reply: "in ~3 weeks"}
	obs := &recordingObserver{}
	d := NewDispatcher(gen, time.Second, obs)

	text, err := d.Text(context.Background(), Forecast{Name: "Mouse", Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, "in ~3 weeks", text)
	assert.Equal(t, 1, gen.callCount())
	assert.Equal(t, []string{"forecast-restock:ok"}, obs.outcomes)

	msgs := gen.messages[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, msgs[0].Role)
	assert.Contains(t, textOf(msgs[0]), "supply chain analyst")
	assert.Contains(t, textOf(msgs[1]), `"quantity": 7`)
}

func TestRunChatStreams(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"You have ", "25 laptops."}}
	d := NewDispatcher(gen, 0, nil)

	var got []string
	task := Chat{
		Messages:  []Message{{Role: "user", Content: "How many laptops?"}, {Role: "assistant", Content: "Checking"}, {Role: "user", Content: "Well?"}},
		Inventory: []model.InventoryItem{{ID: "1", Name: "Laptop Computer", Quantity: 25}},
	}
	err := d.Run(context.Background(), task, func(chunk string) error {
		got = append(got, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"You have ", "25 laptops."}, got)

	msgs := gen.messages[0]
	require.Len(t, msgs, 4)
	assert.Contains(t, textOf(msgs[0]), "Laptop Computer")
	assert.Equal(t, llms.ChatMessageTypeHuman, msgs[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, msgs[2].Role)
}

func TestRunEmitErrorAborts(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"a", "b", "c"}}
	obs := &recordingObserver{}
	d := NewDispatcher(gen, 0, obs)
	gone := errors.New("client went away")

	n := 0
	err := d.Run(context.Background(), Chat{Messages: []Message{}, Inventory: []model.InventoryItem{}}, func(string) error {
		n++
		return gone
	})
	assert.ErrorIs(t, err, gone)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"chat:aborted"}, obs.outcomes)
}

func TestRunChatFailsAfterFirstChunk(t *testing.T) {
	gen := &fakeGenerator{
		chunks:         []string{"partial "},
		err:            errors.New("stream reset by upstream"),
		errAfterChunks: true,
	}
	obs := &recordingObserver{}
	d := NewDispatcher(gen, 0, obs)

	var got []string
	err := d.Run(context.Background(), Chat{Messages: []Message{}, Inventory: []model.InventoryItem{}}, func(chunk string) error {
		got = append(got, chunk)
		return nil
	})

	assert.Equal(t, []string{"partial "}, got)
	var ext *ExternalError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, FailureServer, ext.Kind)
	assert.Equal(t, []string{"chat:error"}, obs.outcomes)
}

func TestRunMapsCredentialErrors(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("API returned unexpected status code: 401: Incorrect API key provided")}
	obs := &recordingObserver{}
	d := NewDispatcher(gen, 0, obs)

	_, err := d.Text(context.Background(), Audit{Inventory: []model.InventoryItem{}})
	var ext *ExternalError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, FailureUnauthorized, ext.Kind)
	assert.Equal(t, unauthorizedMessage, err.Error())
	assert.Equal(t, []string{"audit-inventory:unauthorized"}, obs.outcomes)
}

func TestRunHidesProviderErrors(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream exploded: secret-internal-host:8443")}
	d := NewDispatcher(gen, 0, nil)

	_, err := d.Text(context.Background(), SuggestCategory{Name: "Desk"})
	var ext *ExternalError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, FailureServer, ext.Kind)
	assert.False(t, strings.Contains(err.Error(), "secret"))
	assert.Equal(t, 1, gen.callCount(), "no retries")
}

func TestUnavailableGeneratorIsUnauthorized(t *testing.T) {
	gen := Unavailable(errors.New("missing the OpenAI API key, set it in the OPENAI_API_KEY environment variable"))
	d := NewDispatcher(gen, 0, nil)

	_, err := d.Text(context.Background(), Describe{Name: "Desk"})
	var ext *ExternalError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, FailureUnauthorized, ext.Kind)
}

func TestEmptyResponseIsServerError(t *testing.T) {
	d := NewDispatcher(emptyGenerator{}, 0, nil)
	_, err := d.Text(context.Background(), Describe{Name: "Desk"})
	var ext *ExternalError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, FailureServer, ext.Kind)
}

type emptyGenerator struct{}

func (emptyGenerator) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{}, nil
}

func TestPromptsPerKind(t *testing.T) {
	for _, task := range []Task{
		Audit{Inventory: []model.InventoryItem{{Name: "Stapler"}}},
		Describe{Name: "Desk", Category: "Furniture"},
		SuggestCategory{Name: "Desk"},
	} {
		p, err := buildPrompt(task)
		require.NoError(t, err)
		assert.NotEmpty(t, p.system, task.Kind())
		assert.NotEmpty(t, p.user, task.Kind())
	}

	p, _ := buildPrompt(SuggestCategory{Name: "Desk"})
	assert.Contains(t, p.system, "Office Supplies")
}
