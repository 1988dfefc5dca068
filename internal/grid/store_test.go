package grid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newOrderAPI(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var calls []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders/fc-polako", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		_, _ = w.Write([]byte(`{"id":1,"slug":"fc-polako","title":"FC Polako",
			"columns":[{"key":"name","label":"Name","type":"text"},{"key":"price_jersey","label":"Jersey price","type":"fixed","default":"35"}],
			"config":{"sport":"Football"},"unitLabels":{"pcs":"pcs","currency":"EUR"},
			"rows":[{"id":4,"data":{"name":"Berzins"},"updatedAt":"2026-03-05T14:07:00Z"}]}`))
	})
	mux.HandleFunc("PATCH /api/orders/fc-polako/rows/4", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Data map[string]any `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Data["name"] != "Ozols" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad body"}`))
			return
		}
		calls = append(calls, r.Method+" "+r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("POST /api/orders/fc-polako/rows", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		_, _ = w.Write([]byte(`{"id":5}`))
	})
	mux.HandleFunc("DELETE /api/orders/fc-polako/rows/9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Row not found"}`))
	})
	mux.HandleFunc("GET /api/orders/fc-polako/export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html>" + r.URL.Query().Get("mode") + "</html>"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &calls
}

func TestHTTPStoreRoundTrip(t *testing.T) {
	server, calls := newOrderAPI(t)
	store := NewHTTPStore(server.URL + "/")
	ctx := context.Background()

	doc, err := store.LoadOrder(ctx, "fc-polako")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if doc.Title != "FC Polako" || len(doc.Columns) != 2 || len(doc.Rows) != 1 || doc.Rows[0].ID != 4 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if got := doc.Columns[1].DefaultValue().StringFixed(2); got != "35.00" {
		t.Fatalf("want fixed default 35.00, got %s", got)
	}

	if err := store.SaveRow(ctx, "fc-polako", 4, map[string]any{"name": "Ozols"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	id, err := store.AddRow(ctx, "fc-polako")
	if err != nil || id != 5 {
		t.Fatalf("add row failed: id=%d err=%v", id, err)
	}
	if len(*calls) != 3 {
		t.Fatalf("unexpected calls %v", *calls)
	}

	html, err := store.Export(ctx, "fc-polako", "factory")
	if err != nil || !strings.Contains(string(html), "factory") {
		t.Fatalf("export failed: %s %v", html, err)
	}
}

func TestHTTPStoreErrors(t *testing.T) {
	server, _ := newOrderAPI(t)
	store := NewHTTPStore(server.URL)
	ctx := context.Background()

	err := store.DeleteRow(ctx, "fc-polako", 9)
	if !errors.Is(err, ErrNotFound) || !strings.Contains(err.Error(), "Row not found") {
		t.Fatalf("expected not found with server message, got %v", err)
	}
	err = store.SaveRow(ctx, "fc-polako", 4, map[string]any{"name": "other"})
	if !errors.Is(err, ErrRequestFailed) || !strings.Contains(err.Error(), "bad body") {
		t.Fatalf("expected request failure with server message, got %v", err)
	}
	if _, err := store.LoadOrder(ctx, "unknown"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSessionOverHTTPStore(t *testing.T) {
	server, _ := newOrderAPI(t)
	session := NewSession(NewHTTPStore(server.URL), "fc-polako")
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	view, err := session.Render()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if view.Headers[1] != "Jersey price (EUR)" || view.Rows[0].Cells[0].Value != "Berzins" {
		t.Fatalf("unexpected view %+v", view)
	}
}
