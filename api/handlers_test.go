/*
handlers_test.go - Handler tests through the full router

Requests go through NewRouter so middleware, URL params, and status
mapping are exercised exactly as in production.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/billsplit/api"
	"github.com/warp/billsplit/groups"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	sessions := api.NewSessions(discardLogger())
	handler := api.NewHandler(sessions, groups.NewMemory(), "USD", discardLogger())
	return api.NewRouter(handler)
}

func doJSON(t *testing.T, app http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func decodeReceipt(t *testing.T, rec *httptest.ResponseRecorder) api.ReceiptDTO {
	t.Helper()
	var dto api.ReceiptDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	return dto
}

func createReceipt(t *testing.T, app http.Handler, value string, people ...string) api.ReceiptDTO {
	t.Helper()
	rec := doJSON(t, app, http.MethodPost, "/api/v1/receipts", api.CreateReceiptRequest{
		Value:        value,
		Participants: people,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeReceipt(t, rec)
}

func addItem(t *testing.T, app http.Handler, id string, req api.AddItemRequest) api.ReceiptDTO {
	t.Helper()
	rec := doJSON(t, app, http.MethodPost, "/api/v1/receipts/"+id+"/items", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeReceipt(t, rec)
}

func postForm(t *testing.T, app http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, app http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// JSON API
// =============================================================================

func TestAPI_CreateReceipt_ReturnsState(t *testing.T) {
	app := newTestApp(t)

	dto := createReceipt(t, app, "300", "Alice", "Bob", "Marshall")

	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "300.00", dto.Value)
	assert.Equal(t, []string{"Alice", "Bob", "Marshall"}, dto.Participants)
	assert.Empty(t, dto.Items)
	assert.Equal(t, "0.00", dto.ItemizedTotal)
	assert.Equal(t, "300.00", dto.Leftover)
}

func TestAPI_CreateReceipt_SavesGroup(t *testing.T) {
	app := newTestApp(t)
	createReceipt(t, app, "300", "Alice", "Bob")
	createReceipt(t, app, "80", "Carol", "Dan")

	rec := get(t, app, "/api/v1/groups")
	require.Equal(t, http.StatusOK, rec.Code)

	var dtos []api.GroupDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dtos))
	require.Len(t, dtos, 2)
	assert.Equal(t, []string{"Carol", "Dan"}, dtos[0].Names, "newest group first")
	assert.Equal(t, []string{"Alice", "Bob"}, dtos[1].Names)
}

func TestAPI_CreateReceipt_RejectsDuplicateParticipant(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, http.MethodPost, "/api/v1/receipts", api.CreateReceiptRequest{
		Value:        "300",
		Participants: []string{"Alice", "Alice"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "listed more than once")
}

func TestAPI_CreateReceipt_RejectsBadValue(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, http.MethodPost, "/api/v1/receipts", api.CreateReceiptRequest{
		Value:        "wowza",
		Participants: []string{"Alice", "Bob"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Splits_FullMatrix(t *testing.T) {
	// GIVEN the dinner receipt built over the API
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Bob", "Marshall")
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Food", Value: "200", SharedBy: []string{"Alice", "Bob", "Marshall"}})
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Drinks", Value: "50", SharedBy: []string{"Alice", "Bob"}})

	// WHEN asking for the splits
	rec := get(t, app, "/api/v1/receipts/"+dto.ID+"/splits")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var splits api.SplitsDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&splits))

	// THEN every row reconciles
	assert.Equal(t, []string{"Food", "Drinks", "<leftover>", "<total>"}, splits.Labels)
	assert.Equal(t, []string{"Alice", "Bob", "Marshall", "Total"}, splits.Columns)
	assert.Equal(t, [][]string{
		{"66.67", "66.67", "66.67", "200.00"},
		{"25.00", "25.00", "0.00", "50.00"},
		{"18.33", "18.33", "13.33", "50.00"},
		{"110.00", "110.00", "80.00", "300.00"},
	}, splits.Rows)
}

func TestAPI_AddItem_ProportionalDerivesShares(t *testing.T) {
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Bob", "Marshall")
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Hearty-Burger", Value: "30", SharedBy: []string{"Alice"}})
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Unhealthy-Burger", Value: "60", SharedBy: []string{"Bob"}})

	state := addItem(t, app, dto.ID, api.AddItemRequest{
		Name: "Tax", Value: "50", SharedBy: []string{"Alice", "Bob"}, Proportional: true,
	})

	require.Len(t, state.Items, 3)
	tax := state.Items[2]
	assert.True(t, tax.Proportional)
	assert.Equal(t, []string{"Alice", "Bob"}, tax.SharedBy)
	assert.Equal(t, []string{"16.67", "33.33"}, tax.ShareRatio)
}

func TestAPI_AddItem_UnknownParticipantRejected(t *testing.T) {
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Bob")

	rec := doJSON(t, app, http.MethodPost, "/api/v1/receipts/"+dto.ID+"/items", api.AddItemRequest{
		Name: "Food", Value: "100", SharedBy: []string{"Alice", "Zed"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not on the receipt")
}

func TestAPI_AddItem_ProportionalWithoutBasisRejected(t *testing.T) {
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Bob")

	rec := doJSON(t, app, http.MethodPost, "/api/v1/receipts/"+dto.ID+"/items", api.AddItemRequest{
		Name: "Tax", Value: "50", SharedBy: []string{"Alice"}, Proportional: true,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not proportionally splittable")
}

func TestAPI_AddItem_ZeroRatioRejected(t *testing.T) {
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Bob")

	rec := doJSON(t, app, http.MethodPost, "/api/v1/receipts/"+dto.ID+"/items", api.AddItemRequest{
		Name: "Food", Value: "50", SharedBy: []string{"Alice", "Bob"}, ShareRatio: []string{"0", "0"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "sum to zero")
}

func TestAPI_UpdateItem_PatchValue(t *testing.T) {
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Bob", "Marshall")
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Food", Value: "200", SharedBy: []string{"Alice", "Bob", "Marshall"}})
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Drinks", Value: "50", SharedBy: []string{"Alice", "Bob"}})

	value := "100"
	rec := doJSON(t, app, http.MethodPatch, "/api/v1/receipts/"+dto.ID+"/items/1", api.UpdateItemRequest{Value: &value})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	state := decodeReceipt(t, rec)
	assert.Equal(t, "100.00", state.Items[1].Value)
	assert.Equal(t, "0.00", state.Leftover)
}

func TestAPI_UpdateItem_UnknownIndexIs404(t *testing.T) {
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Bob")

	name := "Ghost"
	rec := doJSON(t, app, http.MethodPatch, "/api/v1/receipts/"+dto.ID+"/items/9", api.UpdateItemRequest{Name: &name})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "out of range")
}

func TestAPI_UpdateItem_NonNumericIndexIs400(t *testing.T) {
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Bob")

	name := "Ghost"
	rec := doJSON(t, app, http.MethodPatch, "/api/v1/receipts/"+dto.ID+"/items/first", api.UpdateItemRequest{Name: &name})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_DeleteItem_RecalculatesState(t *testing.T) {
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Bob", "Marshall")
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Food", Value: "200", SharedBy: []string{"Alice", "Bob", "Marshall"}})
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Drinks", Value: "50", SharedBy: []string{"Alice", "Bob"}})

	rec := doJSON(t, app, http.MethodDelete, "/api/v1/receipts/"+dto.ID+"/items/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	state := decodeReceipt(t, rec)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "Drinks", state.Items[0].Name)
	assert.Equal(t, "250.00", state.Leftover)
}

func TestAPI_DeleteItem_LastBasisItemGuarded(t *testing.T) {
	// GIVEN a proportional item hanging off a single ratio item
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Bob")
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Food", Value: "100", SharedBy: []string{"Alice", "Bob"}})
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Tip", Value: "50", SharedBy: []string{"Alice", "Bob"}, Proportional: true})

	// WHEN removing the only ratio item
	rec := doJSON(t, app, http.MethodDelete, "/api/v1/receipts/"+dto.ID+"/items/0", nil)

	// THEN the delete is rejected and the receipt is unchanged
	require.Equal(t, http.StatusBadRequest, rec.Code)

	state := decodeReceipt(t, get(t, app, "/api/v1/receipts/"+dto.ID))
	assert.Len(t, state.Items, 2)
}

func TestAPI_Splits_OvercommitIs400(t *testing.T) {
	app := newTestApp(t)
	dto := createReceipt(t, app, "100", "Alice", "Bob")
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Feast", Value: "150", SharedBy: []string{"Alice", "Bob"}})

	rec := get(t, app, "/api/v1/receipts/"+dto.ID+"/splits")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "exceeds receipt total")
}

func TestAPI_Splits_ZeroValueProportionalItem(t *testing.T) {
	// A proportional item priced at 0 is a real receipt state (a waived
	// fee); the splits must come back with a zero row, not an error.
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Bob")
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Food", Value: "100", SharedBy: []string{"Alice", "Bob"}})
	addItem(t, app, dto.ID, api.AddItemRequest{Name: "Tax", Value: "0", SharedBy: []string{"Alice", "Bob"}, Proportional: true})

	rec := get(t, app, "/api/v1/receipts/"+dto.ID+"/splits")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var splits api.SplitsDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&splits))
	assert.Equal(t, []string{"Food", "Tax", "<leftover>", "<total>"}, splits.Labels)
	assert.Equal(t, []string{"0.00", "0.00", "0.00"}, splits.Rows[1])
}

func TestAPI_Resolve_ExpandsAbbreviations(t *testing.T) {
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Sam", "Samuel")

	rec := doJSON(t, app, http.MethodPost, "/api/v1/receipts/"+dto.ID+"/resolve", api.ResolveRequest{
		Abbreviations: []string{"Al", "S", "Su"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.ResolveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"Alice", "Sam", "Samuel"}, resp.Participants)

	// The memo survives across calls.
	rec = doJSON(t, app, http.MethodPost, "/api/v1/receipts/"+dto.ID+"/resolve", api.ResolveRequest{
		Abbreviations: []string{"S"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"Sam"}, resp.Participants)
}

func TestAPI_Resolve_UnmatchedAbbreviationIs400(t *testing.T) {
	app := newTestApp(t)
	dto := createReceipt(t, app, "300", "Alice", "Bob")

	rec := doJSON(t, app, http.MethodPost, "/api/v1/receipts/"+dto.ID+"/resolve", api.ResolveRequest{
		Abbreviations: []string{"Z"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not match any participant")
}

func TestAPI_UnknownSessionIs404(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/api/v1/receipts/not-a-session")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Receipt not found")
}

// =============================================================================
// WEB UI
// =============================================================================

func webCreate(t *testing.T, app http.Handler, value, people string) string {
	t.Helper()
	rec := postForm(t, app, "/receipts", url.Values{"value": {value}, "people": {people}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/receipts/"), location)
	return location
}

func TestWeb_CreateReceipt_RedirectsToEditor(t *testing.T) {
	app := newTestApp(t)

	editor := webCreate(t, app, "300", "Alice,Bob")

	rec := get(t, app, editor)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "+$300.00")
	assert.Contains(t, body, "left to balance")
	assert.Contains(t, body, "Add Item")
}

func TestWeb_CreateReceipt_DuplicateNameShownInline(t *testing.T) {
	app := newTestApp(t)

	rec := postForm(t, app, "/receipts", url.Values{"value": {"300"}, "people": {"Alice,Alice"}})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "listed more than once")
}

func TestWeb_CreateReceipt_MissingInputShownInline(t *testing.T) {
	app := newTestApp(t)

	rec := postForm(t, app, "/receipts", url.Values{"value": {""}, "people": {"Alice,Bob"}})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Provide a total amount and at least two people")
}

func TestWeb_Splash_OffersRecentGroups(t *testing.T) {
	app := newTestApp(t)
	webCreate(t, app, "300", "Alice,Bob")

	rec := get(t, app, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Or pick from recently used groups:")
	assert.Contains(t, body, "/?people=Alice%2cBob")
}

func TestWeb_EditorFlow_BalancesReceipt(t *testing.T) {
	// GIVEN a fresh receipt with one default item
	app := newTestApp(t)
	editor := webCreate(t, app, "300", "Alice,Bob")

	rec := postForm(t, app, editor+"/items", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	body := get(t, app, editor).Body.String()
	assert.Contains(t, body, "Item 1")

	// WHEN the item absorbs the whole receipt
	rec = postForm(t, app, editor+"/items/0", url.Values{
		"name":   {"Food"},
		"value":  {"300"},
		"shared": {"Alice", "Bob"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// THEN the editor reports perfect balance
	body = get(t, app, editor).Body.String()
	assert.Contains(t, body, "Perfectly balanced, as all things should be.")
	assert.Contains(t, body, "Show Splits")
}

func TestWeb_EditorUpdate_EngineErrorShownInline(t *testing.T) {
	app := newTestApp(t)
	editor := webCreate(t, app, "300", "Alice,Bob")
	require.Equal(t, http.StatusSeeOther, postForm(t, app, editor+"/items", nil).Code)

	// Unchecking every participant is rejected by the engine.
	rec := postForm(t, app, editor+"/items/0", url.Values{
		"name":  {"Item 1"},
		"value": {""},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enough participants")
}

func TestWeb_Table_RendersMatrix(t *testing.T) {
	app := newTestApp(t)
	editor := webCreate(t, app, "300", "Alice,Bob")
	require.Equal(t, http.StatusSeeOther, postForm(t, app, editor+"/items", nil).Code)
	require.Equal(t, http.StatusSeeOther, postForm(t, app, editor+"/items/0", url.Values{
		"name":   {"Food"},
		"value":  {"300"},
		"shared": {"Alice", "Bob"},
	}).Code)

	rec := get(t, app, editor+"/table")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Here's your split!")
	assert.Contains(t, body, "Food")
	assert.Contains(t, body, "&lt;total&gt;")
	assert.Contains(t, body, "150.00")
}

func TestWeb_Table_OvercommitShownOnPage(t *testing.T) {
	app := newTestApp(t)
	editor := webCreate(t, app, "100", "Alice,Bob")
	require.Equal(t, http.StatusSeeOther, postForm(t, app, editor+"/items", nil).Code)
	require.Equal(t, http.StatusSeeOther, postForm(t, app, editor+"/items/0", url.Values{
		"name":   {"Feast"},
		"value":  {"150"},
		"shared": {"Alice", "Bob"},
	}).Code)

	rec := get(t, app, editor+"/table")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "exceeds receipt total")
}

func TestWeb_UnknownSession_RedirectsToSplash(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/receipts/not-a-session")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}
