/*
handlers.go - HTTP handlers for the web UI and the JSON API

PURPOSE:
  Exposes the bill-splitting engine over HTTP. The HTML side is a tiny
  form-driven app (splash, split editor, split table); the JSON side is
  the same operations for programmatic clients.

ENDPOINTS:
  Web UI:
    GET    /                                   Splash: create receipt, recent groups
    POST   /receipts                           Create from form, redirect to editor
    GET    /receipts/{id}                      Split editor
    POST   /receipts/{id}/items                Add a default item
    POST   /receipts/{id}/items/{index}        Update an item from its form row
    POST   /receipts/{id}/items/{index}/delete Remove an item
    GET    /receipts/{id}/table                The split matrix as an HTML table

  JSON API:
    POST   /api/v1/receipts                    Create receipt
    GET    /api/v1/receipts/{id}               Receipt state
    POST   /api/v1/receipts/{id}/items         Add item (ratio or proportional)
    PATCH  /api/v1/receipts/{id}/items/{index} Partial item update
    DELETE /api/v1/receipts/{id}/items/{index} Remove item
    GET    /api/v1/receipts/{id}/splits        The split matrix
    POST   /api/v1/receipts/{id}/resolve       Abbreviations -> participant names
    GET    /api/v1/groups                      Recently used groups

ERROR HANDLING:
  Engine errors map to HTTP status centrally in writeEngineError:
  - 400: Validation and state errors the caller can fix
  - 404: Unknown session or item index
  - 500: Everything else
  The HTML flow surfaces the same errors inline on the page instead.

SEE ALSO:
  - dto.go: Request/response data structures
  - templates.go: The three pages and their view models
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/billsplit/groups"
	"github.com/warp/billsplit/receipt"
	"github.com/warp/billsplit/renderer"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Sessions *Sessions
	Groups   groups.Store
	Currency string
	Logger   *slog.Logger
}

// NewHandler creates a new handler.
func NewHandler(sessions *Sessions, store groups.Store, currency string, logger *slog.Logger) *Handler {
	return &Handler{
		Sessions: sessions,
		Groups:   store,
		Currency: currency,
		Logger:   logger,
	}
}

// =============================================================================
// WEB UI - SPLASH
// =============================================================================

// Splash renders the create-receipt page with recent groups as prefills.
func (h *Handler) Splash(w http.ResponseWriter, r *http.Request) {
	view := splashView{PeopleValue: r.URL.Query().Get("people")}

	recent, err := h.Groups.Recent(r.Context(), groups.MaxRecent)
	if err != nil {
		// The splash still works without prefills.
		h.Logger.Error("failed to load recent groups", "error", err)
	}
	for _, g := range recent {
		view.Groups = append(view.Groups, groupView{Names: g.Names, People: g.Key()})
	}

	h.renderHTML(w, http.StatusOK, splashTmpl, view)
}

// CreateReceipt builds a receipt from the splash form and redirects to
// its editor. Validation failures re-render the splash inline.
func (h *Handler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderHTML(w, http.StatusBadRequest, splashTmpl, splashView{Error: "Could not read the form."})
		return
	}

	value, err := decimal.NewFromString(strings.TrimSpace(r.PostFormValue("value")))
	people := splitPeople(r.PostFormValue("people"))
	if err != nil || len(people) == 0 {
		h.renderHTML(w, http.StatusBadRequest, splashTmpl, splashView{
			Error:       "Provide a total amount and at least two people to start splitting!",
			PeopleValue: r.PostFormValue("people"),
		})
		return
	}

	rec, err := receipt.New(value, people)
	if err != nil {
		h.renderHTML(w, http.StatusBadRequest, splashTmpl, splashView{
			Error:       err.Error(),
			PeopleValue: r.PostFormValue("people"),
		})
		return
	}

	session := h.Sessions.Create(rec)
	if err := h.Groups.Save(r.Context(), people); err != nil {
		// Cache trouble should never block splitting a bill.
		h.Logger.Error("failed to save group", "error", err)
	}

	http.Redirect(w, r, "/receipts/"+session.ID, http.StatusSeeOther)
}

// =============================================================================
// WEB UI - SPLIT EDITOR
// =============================================================================

// ShowReceipt renders the split editor for a session.
func (h *Handler) ShowReceipt(w http.ResponseWriter, r *http.Request) {
	session, ok := h.htmlSession(w, r)
	if !ok {
		return
	}
	session.Lock()
	defer session.Unlock()

	h.renderHTML(w, http.StatusOK, splitTmpl, h.splitViewFor(session, ""))
}

// AddItemForm appends a default item: value zero, "Item N", shared by
// everyone with uniform weights.
func (h *Handler) AddItemForm(w http.ResponseWriter, r *http.Request) {
	session, ok := h.htmlSession(w, r)
	if !ok {
		return
	}
	session.Lock()
	defer session.Unlock()

	rec := session.Receipt
	name := fmt.Sprintf("Item %d", len(rec.Items())+1)
	if err := rec.AddItemByRatio(decimal.Zero, name, rec.Participants(), nil); err != nil {
		h.renderHTML(w, http.StatusBadRequest, splitTmpl, h.splitViewFor(session, err.Error()))
		return
	}

	http.Redirect(w, r, "/receipts/"+session.ID, http.StatusSeeOther)
}

// UpdateItemForm applies one item row's form state. Only fields that
// actually changed go into the patch, so an untouched row neither resets
// custom weights nor re-expands the shared-by list.
func (h *Handler) UpdateItemForm(w http.ResponseWriter, r *http.Request) {
	session, ok := h.htmlSession(w, r)
	if !ok {
		return
	}
	session.Lock()
	defer session.Unlock()

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.renderHTML(w, http.StatusNotFound, splitTmpl, h.splitViewFor(session, "That item does not exist."))
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderHTML(w, http.StatusBadRequest, splitTmpl, h.splitViewFor(session, "Could not read the form."))
		return
	}

	rec := session.Receipt
	item, err := rec.Item(index)
	if err != nil {
		h.renderHTML(w, http.StatusNotFound, splitTmpl, h.splitViewFor(session, err.Error()))
		return
	}

	value := decimal.Zero
	if raw := strings.TrimSpace(r.PostFormValue("value")); raw != "" {
		value, err = decimal.NewFromString(raw)
		if err != nil {
			h.renderHTML(w, http.StatusBadRequest, splitTmpl,
				h.splitViewFor(session, fmt.Sprintf("%q is not a valid amount", raw)))
			return
		}
	}

	shared := r.PostForm["shared"]
	if shared == nil {
		shared = []string{}
	}
	if name, ok := firstUnknown(rec.Participants(), shared); ok {
		h.renderHTML(w, http.StatusBadRequest, splitTmpl,
			h.splitViewFor(session, fmt.Sprintf("%q is not on this receipt", name)))
		return
	}
	proportional := r.PostFormValue("proportional") != ""

	var patch receipt.ItemPatch
	if name := r.PostFormValue("name"); name != item.Name {
		patch.Name = &name
	}
	if !value.Equal(item.Value) {
		patch.Value = &value
	}
	if !sameNames(shared, item.SharedBy) {
		patch.SharedBy = shared
	}
	if proportional != item.Proportional {
		patch.Proportional = &proportional
	}

	if err := rec.UpdateItem(index, patch); err != nil {
		h.renderHTML(w, http.StatusBadRequest, splitTmpl, h.splitViewFor(session, err.Error()))
		return
	}

	http.Redirect(w, r, "/receipts/"+session.ID, http.StatusSeeOther)
}

// DeleteItemForm removes an item.
func (h *Handler) DeleteItemForm(w http.ResponseWriter, r *http.Request) {
	session, ok := h.htmlSession(w, r)
	if !ok {
		return
	}
	session.Lock()
	defer session.Unlock()

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.renderHTML(w, http.StatusNotFound, splitTmpl, h.splitViewFor(session, "That item does not exist."))
		return
	}

	if err := session.Receipt.RemoveItem(index); err != nil {
		h.renderHTML(w, http.StatusBadRequest, splitTmpl, h.splitViewFor(session, err.Error()))
		return
	}

	http.Redirect(w, r, "/receipts/"+session.ID, http.StatusSeeOther)
}

// ShowTable renders the split matrix, or the reason it cannot be computed.
func (h *Handler) ShowTable(w http.ResponseWriter, r *http.Request) {
	session, ok := h.htmlSession(w, r)
	if !ok {
		return
	}
	session.Lock()
	defer session.Unlock()

	view := tableView{ID: session.ID}
	splits, err := session.Receipt.CalculateSplits()
	if err != nil {
		view.Error = err.Error()
		h.renderHTML(w, http.StatusOK, tableTmpl, view)
		return
	}

	view.Header = append([]string{"Item Name"}, splits.Columns...)
	view.Rows = make([]tableRow, len(splits.Rows))
	for i, row := range splits.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cell.StringFixed(2)
		}
		view.Rows[i] = tableRow{Label: splits.Labels[i], Cells: cells}
	}

	h.renderHTML(w, http.StatusOK, tableTmpl, view)
}

// =============================================================================
// JSON API
// =============================================================================

// CreateReceiptAPI creates a receipt session from a JSON body.
// POST /api/v1/receipts
func (h *Handler) CreateReceiptAPI(w http.ResponseWriter, r *http.Request) {
	var req CreateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid receipt value", err)
		return
	}

	rec, err := receipt.New(value, req.Participants)
	if err != nil {
		writeEngineError(w, "Failed to create receipt", err)
		return
	}

	session := h.Sessions.Create(rec)
	if err := h.Groups.Save(r.Context(), req.Participants); err != nil {
		h.Logger.Error("failed to save group", "error", err)
	}

	writeJSON(w, http.StatusCreated, toReceiptDTO(session.ID, rec))
}

// GetReceiptAPI returns the current receipt state.
// GET /api/v1/receipts/{id}
func (h *Handler) GetReceiptAPI(w http.ResponseWriter, r *http.Request) {
	session, ok := h.jsonSession(w, r)
	if !ok {
		return
	}
	session.Lock()
	defer session.Unlock()

	writeJSON(w, http.StatusOK, toReceiptDTO(session.ID, session.Receipt))
}

// AddItemAPI appends an item, ratio-split or proportional.
// POST /api/v1/receipts/{id}/items
func (h *Handler) AddItemAPI(w http.ResponseWriter, r *http.Request) {
	session, ok := h.jsonSession(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item value", err)
		return
	}
	ratios, err := parseDecimals(req.ShareRatio)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid share ratio", err)
		return
	}

	session.Lock()
	defer session.Unlock()

	rec := session.Receipt
	if name, ok := firstUnknown(rec.Participants(), req.SharedBy); ok {
		writeError(w, http.StatusBadRequest, "Unknown participant",
			fmt.Errorf("%q is not on the receipt", name))
		return
	}
	if req.Proportional {
		err = rec.AddItemByProportion(value, req.Name, req.SharedBy)
	} else {
		err = rec.AddItemByRatio(value, req.Name, req.SharedBy, ratios)
	}
	if err != nil {
		writeEngineError(w, "Failed to add item", err)
		return
	}

	writeJSON(w, http.StatusCreated, toReceiptDTO(session.ID, rec))
}

// UpdateItemAPI applies a partial update to an item.
// PATCH /api/v1/receipts/{id}/items/{index}
func (h *Handler) UpdateItemAPI(w http.ResponseWriter, r *http.Request) {
	session, ok := h.jsonSession(w, r)
	if !ok {
		return
	}
	index, ok := itemIndex(w, r)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	patch := receipt.ItemPatch{
		Name:         req.Name,
		SharedBy:     req.SharedBy,
		Proportional: req.Proportional,
	}
	if req.Value != nil {
		value, err := decimal.NewFromString(*req.Value)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid item value", err)
			return
		}
		patch.Value = &value
	}

	session.Lock()
	defer session.Unlock()

	if name, ok := firstUnknown(session.Receipt.Participants(), patch.SharedBy); ok {
		writeError(w, http.StatusBadRequest, "Unknown participant",
			fmt.Errorf("%q is not on the receipt", name))
		return
	}
	if err := session.Receipt.UpdateItem(index, patch); err != nil {
		writeEngineError(w, "Failed to update item", err)
		return
	}

	writeJSON(w, http.StatusOK, toReceiptDTO(session.ID, session.Receipt))
}

// DeleteItemAPI removes an item.
// DELETE /api/v1/receipts/{id}/items/{index}
func (h *Handler) DeleteItemAPI(w http.ResponseWriter, r *http.Request) {
	session, ok := h.jsonSession(w, r)
	if !ok {
		return
	}
	index, ok := itemIndex(w, r)
	if !ok {
		return
	}

	session.Lock()
	defer session.Unlock()

	if err := session.Receipt.RemoveItem(index); err != nil {
		writeEngineError(w, "Failed to remove item", err)
		return
	}

	writeJSON(w, http.StatusOK, toReceiptDTO(session.ID, session.Receipt))
}

// GetSplitsAPI returns the split matrix.
// GET /api/v1/receipts/{id}/splits
func (h *Handler) GetSplitsAPI(w http.ResponseWriter, r *http.Request) {
	session, ok := h.jsonSession(w, r)
	if !ok {
		return
	}
	session.Lock()
	defer session.Unlock()

	splits, err := session.Receipt.CalculateSplits()
	if err != nil {
		writeEngineError(w, "Failed to calculate splits", err)
		return
	}

	writeJSON(w, http.StatusOK, toSplitsDTO(splits))
}

// ResolveAPI expands abbreviations to participant names, teaching the
// receipt's memo as a side effect.
// POST /api/v1/receipts/{id}/resolve
func (h *Handler) ResolveAPI(w http.ResponseWriter, r *http.Request) {
	session, ok := h.jsonSession(w, r)
	if !ok {
		return
	}

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	session.Lock()
	defer session.Unlock()

	names, err := session.Receipt.ResolveAbbreviations(req.Abbreviations)
	if err != nil {
		writeEngineError(w, "Failed to resolve abbreviations", err)
		return
	}

	writeJSON(w, http.StatusOK, ResolveResponse{Participants: names})
}

// ListGroupsAPI returns the recently used groups.
// GET /api/v1/groups
func (h *Handler) ListGroupsAPI(w http.ResponseWriter, r *http.Request) {
	recent, err := h.Groups.Recent(r.Context(), groups.MaxRecent)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groups", err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupDTOs(recent))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine error kinds to HTTP status codes.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case receipt.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case receipt.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func (h *Handler) renderHTML(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		h.Logger.Error("failed to render template", "template", tmpl.Name(), "error", err)
	}
}

// htmlSession resolves the session for web UI routes; an expired or
// unknown session sends the visitor back to the splash.
func (h *Handler) htmlSession(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	session, ok := h.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	return session, true
}

// jsonSession resolves the session for API routes; unknown is a 404.
func (h *Handler) jsonSession(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	session, ok := h.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Receipt not found", nil)
		return nil, false
	}
	return session, true
}

func itemIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item index", err)
		return 0, false
	}
	return index, true
}

// splitViewFor builds the editor view model. Callers hold the session lock.
func (h *Handler) splitViewFor(session *Session, errMsg string) splitView {
	rec := session.Receipt
	items := rec.Items()

	views := make([]itemView, len(items))
	for i, item := range items {
		shared := make(map[string]bool, len(item.SharedBy))
		for _, name := range item.SharedBy {
			shared[name] = true
		}
		value := ""
		if !item.Value.IsZero() {
			value = item.Value.String()
		}
		views[i] = itemView{
			Index:        i,
			Name:         item.Name,
			Value:        value,
			SharedBy:     shared,
			Proportional: item.Proportional,
		}
	}

	view := splitView{
		ID:           session.ID,
		Participants: rec.Participants(),
		Items:        views,
		Error:        errMsg,
	}
	view.BalanceAmount, view.BalanceClass, view.BalanceCaption = h.balanceParts(rec.Leftover())

	// The table link appears once every item has a positive value and
	// the splits actually compute.
	canShow := len(items) > 0
	for _, item := range items {
		if !item.Value.IsPositive() {
			canShow = false
			break
		}
	}
	if canShow {
		if _, err := rec.CalculateSplits(); err != nil {
			canShow = false
		}
	}
	view.CanShow = canShow

	return view
}

func (h *Handler) balanceParts(leftover decimal.Decimal) (amount, class, caption string) {
	money := renderer.NewMoney(leftover, h.Currency)
	switch {
	case leftover.IsPositive():
		return "+" + money.String(), "has-text-dark", "left to balance"
	case leftover.IsNegative():
		return "Remaining: " + money.String(), "has-text-danger", "Item total exceeds receipt total."
	default:
		return money.String(), "has-text-link", "Perfectly balanced, as all things should be."
	}
}

// splitPeople turns the comma-separated people field into a name list.
func splitPeople(raw string) []string {
	var people []string
	for _, field := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(field); name != "" {
			people = append(people, name)
		}
	}
	return people
}

// firstUnknown returns the first name not on the participant list. Items
// only ever carry receipt participants; the engine trusts its callers on
// this, so the HTTP boundary checks.
func firstUnknown(participants, names []string) (string, bool) {
	known := make(map[string]struct{}, len(participants))
	for _, name := range participants {
		known[name] = struct{}{}
	}
	for _, name := range names {
		if _, ok := known[name]; !ok {
			return name, true
		}
	}
	return "", false
}

// sameNames reports whether two name lists contain the same people,
// ignoring order.
func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, name := range a {
		seen[name] = struct{}{}
	}
	for _, name := range b {
		if _, ok := seen[name]; !ok {
			return false
		}
	}
	return true
}
