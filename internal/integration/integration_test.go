package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/config"
	httpapi "github.com/bhaskarkhanolkar1-a11y/bablu/internal/http"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/inventory"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/notify"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/obs"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/sheet"
)

func TestIntegration_UpdateTriggersSlackWebhook(t *testing.T) {
	obs.InitLogger()

	var hooks atomic.Int32
	var lastPayload atomic.Value
	hookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lastPayload.Store(string(body))
		hooks.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer hookSrv.Close()

	cfg := config.Config{
		SheetTab:          "Sheet1",
		SheetsBackend:     config.BackendMemory,
		LowStockThreshold: 5,
		NotifyWorkers:     1,
		SlackWebhook:      hookSrv.URL,
	}
	notifier := notify.New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier.Start(ctx)
	defer notifier.Stop()

	mem := sheet.NewMemory(
		[]string{"ITM01", "12", "Rack A", "Widget"},
		[]string{"ITM02", "3", "Rack B", "Gadget"},
	)
	repo := inventory.New(mem, cfg.SheetTab, notifier)
	h := httpapi.NewRouter(httpapi.NewApp(cfg, repo, notifier))

	// 3 -> 2 stays below the threshold: no alert.
	patch(t, h, `{"code":"ITM02","quantity":2}`, http.StatusOK)
	// 12 -> 2 crosses it: exactly one alert.
	patch(t, h, `{"code":"ITM01","quantity":2}`, http.StatusOK)

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancelDrain()
	if ok := notifier.DrainUntil(drainCtx); !ok {
		t.Fatalf("drain timeout")
	}
	if got := hooks.Load(); got != 1 {
		t.Fatalf("expected 1 webhook delivery, got %d", got)
	}
	payload, _ := lastPayload.Load().(string)
	if !bytes.Contains([]byte(payload), []byte("ITM01")) {
		t.Fatalf("expected ITM01 in webhook payload, got %s", payload)
	}

	// State after the updates is visible to reads.
	r := httptest.NewRequest(http.MethodGet, "/api/item?code=itm01", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Quantity int `json:"quantity"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", resp.Quantity)
	}
}

func TestIntegration_CreateGetDeleteFlow(t *testing.T) {
	obs.InitLogger()
	cfg := config.Config{SheetTab: "Sheet1", SheetsBackend: config.BackendMemory}
	repo := inventory.New(sheet.NewMemory(), cfg.SheetTab, nil)
	h := httpapi.NewRouter(httpapi.NewApp(cfg, repo, nil))

	post := httptest.NewRequest(http.MethodPost, "/api/item",
		bytes.NewBufferString(`{"name":"Widget","quantity":4,"location":"Rack A"}`))
	post.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, post)
	if w.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	get := httptest.NewRequest(http.MethodGet, "/api/item?code=widget", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, get)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	del := httptest.NewRequest(http.MethodDelete, "/api/item",
		bytes.NewBufferString(`{"code":"Widget"}`))
	del.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, del)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}

	get = httptest.NewRequest(http.MethodGet, "/api/item?code=Widget", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, get)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
}

func patch(t *testing.T, h http.Handler, body string, want int) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPatch, "/api/item", bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, w.Code, w.Body.String())
	}
}
