package httpapi

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/config"
	httpopenapi "github.com/bhaskarkhanolkar1-a11y/bablu/internal/http/openapi"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/inventory"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/model"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/notify"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/obs"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/search"
)

type App struct {
	Cfg      config.Config
	Repo     *inventory.Repository
	Notifier *notify.Notifier
	started  time.Time
}

func NewApp(cfg config.Config, repo *inventory.Repository, n *notify.Notifier) *App {
	return &App{Cfg: cfg, Repo: repo, Notifier: n, started: time.Now()}
}

// searchItem is the list/search projection of a record.
type searchItem struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

func (a *App) itemHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getItem(w, r)
	case http.MethodPost:
		a.createItem(w, r)
	case http.MethodPatch:
		a.updateItem(w, r)
	case http.MethodDelete:
		a.deleteItem(w, r)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) getItem(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "missing 'code' query parameter")
		return
	}
	it, found, err := a.Repo.GetByCode(r.Context(), code)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "sheet_error", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if !found {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(struct {
			Found bool   `json:"found"`
			Code  string `json:"code"`
		}{false, code})
		return
	}
	_ = json.NewEncoder(w).Encode(struct {
		Found    bool   `json:"found"`
		Code     string `json:"code"`
		Quantity int    `json:"quantity"`
		Location string `json:"location"`
	}{true, code, it.Quantity, it.Location})
}

type createRequest struct {
	Name     *string  `json:"name"`
	Quantity *float64 `json:"quantity"`
	Location *string  `json:"location"`
}

func (a *App) createItem(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "invalid 'name' provided")
		return
	}
	if req.Quantity == nil || math.IsNaN(*req.Quantity) || math.IsInf(*req.Quantity, 0) {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "invalid 'quantity' provided")
		return
	}
	if req.Location == nil || strings.TrimSpace(*req.Location) == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "invalid 'location' provided")
		return
	}
	it := model.NewItem{
		Name:     strings.TrimSpace(*req.Name),
		Quantity: clampQuantity(*req.Quantity),
		Location: strings.TrimSpace(*req.Location),
	}
	if err := a.Repo.Add(r.Context(), it); err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "sheet_error", err.Error())
		return
	}
	obs.Logger.Info("item_created",
		"code", it.Name,
		"quantity", it.Quantity,
		"request_id", RequestIDFromContext(r.Context()),
	)
	writeJSON(w, map[string]any{"success": true})
}

type updateRequest struct {
	Code     *string  `json:"code"`
	NewCode  *string  `json:"newCode"`
	Quantity *float64 `json:"quantity"`
	Location *string  `json:"location"`
}

func (a *App) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Code == nil || strings.TrimSpace(*req.Code) == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "body must include the current 'code'")
		return
	}
	code := strings.TrimSpace(*req.Code)

	var u model.ItemUpdate
	echo := map[string]any{"success": true}
	if req.NewCode != nil {
		nc := strings.TrimSpace(*req.NewCode)
		if nc == "" {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "if provided, 'newCode' must be a non-empty string")
			return
		}
		u.NewCode = &nc
		echo["newCode"] = nc
	}
	if req.Quantity != nil {
		if math.IsNaN(*req.Quantity) || math.IsInf(*req.Quantity, 0) {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "if provided, 'quantity' must be a finite number")
			return
		}
		q := clampQuantity(*req.Quantity)
		u.Quantity = &q
		echo["quantity"] = q
	}
	if req.Location != nil {
		loc := strings.TrimSpace(*req.Location)
		u.Location = &loc
		echo["location"] = loc
	}
	if u.Empty() {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "body must contain 'newCode', 'quantity', or 'location' to update")
		return
	}

	ok, err := a.Repo.Update(r.Context(), code, u)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "sheet_error", err.Error())
		return
	}
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", fmt.Sprintf("no item with code %s", code))
		return
	}
	obs.Logger.Info("item_updated",
		"code", code,
		"request_id", RequestIDFromContext(r.Context()),
	)
	writeJSON(w, echo)
}

func (a *App) deleteItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code *string `json:"code"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Code == nil || strings.TrimSpace(*req.Code) == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "body must include the 'code' to delete")
		return
	}
	code := strings.TrimSpace(*req.Code)
	ok, err := a.Repo.Delete(r.Context(), code)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "sheet_error", err.Error())
		return
	}
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", fmt.Sprintf("no item with code %s", code))
		return
	}
	obs.Logger.Info("item_deleted",
		"code", code,
		"request_id", RequestIDFromContext(r.Context()),
	)
	writeJSON(w, map[string]any{"success": true})
}

func (a *App) searchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	limitRaw := r.URL.Query().Get("limit")
	limit := search.DefaultLimit
	if n, err := strconv.Atoi(limitRaw); err == nil {
		limit = search.ClampLimit(n, true)
	}

	items, err := a.Repo.ListAll(r.Context())
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "sheet_error", err.Error())
		return
	}
	ranked := search.Rank(items, q, limit)
	out := make([]searchItem, 0, len(ranked))
	for _, it := range ranked {
		out = append(out, searchItem{Code: it.Code, Quantity: it.Quantity, Name: it.Name})
	}
	writeJSON(w, out)
}

func (a *App) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	items, err := a.Repo.ListAll(r.Context())
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "sheet_error", err.Error())
		return
	}
	// Hand-edited sheets accumulate rows with a code but no display name;
	// the dashboard hides those.
	out := make([]searchItem, 0, len(items))
	for _, it := range items {
		if it.Name == "" {
			continue
		}
		out = append(out, searchItem{Code: it.Code, Quantity: it.Quantity, Name: it.Name})
	}
	writeJSON(w, out)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	m := map[string]any{
		"uptime_sec": time.Since(a.started).Seconds(),
	}
	if a.Notifier != nil {
		enq, delivered, failed, backlog := a.Notifier.Metrics()
		m["alerts_enqueued"] = enq
		m["alerts_delivered"] = delivered
		m["alerts_failed"] = failed
		m["alerts_backlog"] = backlog
	}
	writeJSON(w, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}

// clampQuantity floors and clamps a requested quantity to a non-negative int.
func clampQuantity(q float64) int {
	n := int(math.Floor(q))
	if n < 0 {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
