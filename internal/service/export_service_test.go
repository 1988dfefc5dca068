package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/export"
	"github.com/ninetytwo-orders/internal/queue"
)

func setupExportServiceTest(t *testing.T) (*ExportService, string) {
	t.Helper()
	orders := setupOrderServiceTest(t)
	if _, err := orders.CreateFromRequest(footballRequest("print")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	doc, _ := orders.GetOrderBySlug("print")
	if err := orders.SaveRow("print", doc.Rows[0].ID, map[string]interface{}{"name": "Berzins", "qty_jersey": "3"}); err != nil {
		t.Fatalf("save row failed: %v", err)
	}
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	dir := t.TempDir()
	svc := NewExportService(orders, queueClient, config.ExportConfig{ArchiveDir: dir, Brand: "NinetyTwo"})
	svc.now = func() time.Time { return time.Date(2026, 3, 5, 14, 7, 0, 0, time.UTC) }
	return svc, dir
}

func TestExportRender(t *testing.T) {
	svc, _ := setupExportServiceTest(t)
	body, err := svc.Render("print", export.ModeFull, true)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	html := string(body)
	if !strings.Contains(html, "Berzins") || !strings.Contains(html, "105.00 EUR") {
		t.Fatalf("rendered document missing row or total")
	}
	if !strings.Contains(html, "window.print") {
		t.Fatalf("auto print script expected")
	}
	if _, err := svc.Render("ghost", export.ModeFull, false); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestExportRequestArchiveRunsInlineWithoutQueue(t *testing.T) {
	svc, dir := setupExportServiceTest(t)
	result, err := svc.RequestArchive("print", export.ModeFactory)
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if result.Queued || result.Path == "" {
		t.Fatalf("expected inline archive, got %+v", result)
	}
	if filepath.Dir(result.Path) != dir || filepath.Base(result.Path) != "print-factory-20260305T140700Z.html" {
		t.Fatalf("unexpected archive path %s", result.Path)
	}
	body, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("read archive failed: %v", err)
	}
	if strings.Contains(string(body), "PRICE") {
		t.Fatalf("factory archive must not contain prices")
	}
	if _, err := svc.RequestArchive("ghost", export.ModeFull); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestExportUsesCurrentPricingAfterSettingsChange(t *testing.T) {
	svc, _ := setupExportServiceTest(t)
	if err := svc.orders.UpdateSettings("print", UpdateOrderRequest{
		OrderSettingsInput: OrderSettingsInput{JerseyPricingMode: strPtr("Complex")},
	}); err != nil {
		t.Fatalf("update settings failed: %v", err)
	}
	body, err := svc.Render("print", export.ModeFull, false)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	html := string(body)
	if !strings.Contains(html, "246.00 EUR") {
		t.Fatalf("total must follow the Complex jersey price (3 x 82)")
	}
	if strings.Contains(html, "105.00") {
		t.Fatalf("stale Sublimated total leaked into the document")
	}
}
