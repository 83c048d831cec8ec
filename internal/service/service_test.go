package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"stockroom-api/internal/ai"
	"stockroom-api/internal/auth"
	"stockroom-api/internal/cache"
	"stockroom-api/internal/inventory"
	"stockroom-api/internal/model"
	"stockroom-api/internal/repository"
)

type scriptedGenerator struct {
	calls  int
	reply  string
	err    error
	during func()
}

func (g *scriptedGenerator) GenerateContent(ctx context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	g.calls++
	if g.during != nil {
		g.during()
	}
	if g.err != nil {
		return nil, g.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: g.reply}}}, nil
}

type countingObserver map[string]int

func (c countingObserver) ObserveMutation(op, result string) { c[op+"/"+result]++ }

type fixture struct {
	store     *inventory.Store
	session   *auth.Session
	inv       *InventoryService
	assistant *AssistantService
	gen       *scriptedGenerator
	observed  countingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	slot := repository.NewCacheSnapshotRepository(cache.NewMemoryCache(), "", "memory")
	t.Cleanup(func() { slot.Close() })

	f := &fixture{
		store:    inventory.Open(context.Background(), slot, inventory.Options{}),
		session:  auth.NewSession(),
		gen:      &scriptedGenerator{},
		observed: countingObserver{},
	}
	f.inv = NewInventoryService(f.store, f.session, f.observed)
	f.assistant = NewAssistantService(f.inv, ai.NewDispatcher(f.gen, 0, nil))
	return f
}

func (f *fixture) switchTo(t *testing.T, userID string) {
	t.Helper()
	_, err := f.session.Dispatch(auth.SwitchUser{UserID: userID})
	require.NoError(t, err)
}

func TestStaffCannotCreate(t *testing.T) {
	f := newFixture(t)
	f.switchTo(t, "3")

	_, err := f.inv.Create(context.Background(), model.InventoryForm{Name: "Desk", Quantity: 2})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, 3, f.store.Len())
	assert.Equal(t, 1, f.observed["create/denied"])
}

func TestStaffCannotDelete(t *testing.T) {
	f := newFixture(t)
	f.switchTo(t, "3")

	assert.ErrorIs(t, f.inv.Delete(context.Background(), "1"), ErrPermissionDenied)
	_, ok := f.store.Get("1")
	assert.True(t, ok)
}

func TestStaffCanEdit(t *testing.T) {
	f := newFixture(t)
	f.switchTo(t, "3")

	item, _ := f.store.Get("2")
	form := model.FormOf(item)
	form.Quantity = 12
	form.Status = model.StatusInStock

	view, err := f.inv.Update(context.Background(), "2", form)
	require.NoError(t, err)
	assert.Equal(t, 12, view.Quantity)
	assert.Nil(t, view.Price)
}

func TestCreateDerivesStatus(t *testing.T) {
	f := newFixture(t)

	view, err := f.inv.Create(context.Background(), model.InventoryForm{Name: "Stapler", Quantity: 4, Price: 9.5})
	require.NoError(t, err)
	assert.Equal(t, model.StatusLowStock, view.Status)
	require.NotNil(t, view.Price)
	assert.Equal(t, 9.5, *view.Price)
	assert.Equal(t, 4, f.store.Len())
}

func TestCreateRejectsInvalidForm(t *testing.T) {
	f := newFixture(t)

	_, err := f.inv.Create(context.Background(), model.InventoryForm{Name: " ", Quantity: -1})
	var verr *inventory.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 3, f.store.Len())
}

func TestListOmitsPriceForStaff(t *testing.T) {
	f := newFixture(t)
	f.switchTo(t, "3")

	views, total := f.inv.List(inventory.Criteria{})
	require.Len(t, views, 3)
	assert.Equal(t, 3, total)

	data, err := json.Marshal(views[0])
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"price"`)

	stats := f.inv.Stats(inventory.Criteria{})
	assert.Nil(t, stats.TotalValue)
}

func TestStatsOrderForStaffIgnoresValue(t *testing.T) {
	f := newFixture(t)
	_, err := f.inv.Create(context.Background(), model.InventoryForm{Name: "Paper clips", Quantity: 500, Category: "Office Supplies", Price: 0.1})
	require.NoError(t, err)

	names := func(v StatsView) []string {
		out := make([]string, len(v.Categories))
		for i, c := range v.Categories {
			out[i] = c.Name
		}
		return out
	}

	assert.Equal(t, []string{"Electronics", "Furniture", "Office Supplies"}, names(f.inv.Stats(inventory.Criteria{})))

	f.switchTo(t, "3")
	assert.Equal(t, []string{"Office Supplies", "Electronics", "Furniture"}, names(f.inv.Stats(inventory.Criteria{})))
}

func TestListShowsPriceForManager(t *testing.T) {
	f := newFixture(t)
	f.switchTo(t, "2")

	views, _ := f.inv.List(inventory.Criteria{Category: "Furniture"})
	require.Len(t, views, 1)

	data, err := json.Marshal(views[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":299.99`)
}

func TestExportNeedsPermission(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	name, err := f.inv.Export(&buf, inventory.Criteria{}, "name,price")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "inventory_export_"))
	assert.True(t, strings.HasPrefix(buf.String(), "Name,Price\n"))

	f.switchTo(t, "3")
	_, err = f.inv.Export(&buf, inventory.Criteria{}, "name")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAuditNeedsPermission(t *testing.T) {
	f := newFixture(t)
	f.switchTo(t, "3")

	_, err := f.assistant.Audit(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, f.gen.calls)
}

func TestForecastOnlyForStockedItems(t *testing.T) {
	f := newFixture(t)
	f.gen.reply = " in ~3 weeks \n"

	text, err := f.assistant.Forecast(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "in ~3 weeks", text)

	_, err = f.assistant.Forecast(context.Background(), "3")
	assert.ErrorIs(t, err, ErrNotForecastable)
	assert.Equal(t, 1, f.gen.calls)
}

func TestSuggestCategoryApplied(t *testing.T) {
	f := newFixture(t)
	f.gen.reply = `"Office Supplies"`

	res, err := f.assistant.Suggest(context.Background(), "2", FieldCategory)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.False(t, res.Stale)
	assert.Equal(t, "Office Supplies", res.Suggestion)

	item, _ := f.store.Get("2")
	assert.Equal(t, "Office Supplies", item.Category)
}

func TestSuggestUnknownCategoryReported(t *testing.T) {
	f := newFixture(t)
	f.gen.reply = "Gadgets"

	res, err := f.assistant.Suggest(context.Background(), "2", FieldCategory)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Contains(t, res.Reason, "Gadgets")

	item, _ := f.store.Get("2")
	assert.Equal(t, "Furniture", item.Category)
}

func TestSuggestDiscardsStaleResult(t *testing.T) {
	f := newFixture(t)
	f.gen.reply = "A generated description."
	f.gen.during = func() {
		item, _ := f.store.Get("1")
		form := model.FormOf(item)
		form.Description = "Edited by hand"
		_, err := f.store.Update(context.Background(), "1", form)
		require.NoError(t, err)
	}

	res, err := f.assistant.Suggest(context.Background(), "1", FieldDescription)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.False(t, res.Accepted)

	item, _ := f.store.Get("1")
	assert.Equal(t, "Edited by hand", item.Description)
}

func TestSuggestDiscardedWhenRecordRemoved(t *testing.T) {
	f := newFixture(t)
	f.gen.reply = "Text"
	f.gen.during = func() {
		require.NoError(t, f.store.Remove(context.Background(), "1"))
	}

	res, err := f.assistant.Suggest(context.Background(), "1", FieldDescription)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, 2, f.store.Len())
}

func TestSuggestProviderError(t *testing.T) {
	f := newFixture(t)
	f.gen.err = errors.New("401 Unauthorized: invalid api key")

	_, err := f.assistant.Suggest(context.Background(), "1", FieldDescription)
	var ext *ai.ExternalError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, ai.FailureUnauthorized, ext.Kind)
}

func TestSuggestUnknownField(t *testing.T) {
	f := newFixture(t)

	_, err := f.assistant.Suggest(context.Background(), "1", "price")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Zero(t, f.gen.calls)
}
