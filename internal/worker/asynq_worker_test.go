package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/models"
	"github.com/ninetytwo-orders/internal/provider"
	"github.com/ninetytwo-orders/internal/queue"
	"github.com/ninetytwo-orders/internal/repository"
	"github.com/ninetytwo-orders/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, string) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	orders := service.NewOrderService(repository.NewOrderRepository(db), repository.NewRowRepository(db), service.DefaultOrderDefaults())
	sport := "Football"
	if _, err := orders.CreateFromRequest(service.CreateOrderRequest{
		Slug:  "fc-polako",
		Title: "FC Polako",
		OrderSettingsInput: service.OrderSettingsInput{
			Sport:    &sport,
			Products: []string{"jersey"},
		},
	}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	dir := t.TempDir()
	exports := service.NewExportService(orders, queueClient, config.ExportConfig{ArchiveDir: dir})
	return NewConsumer(&provider.Container{OrderService: orders, ExportService: exports}), dir
}

func newArchiveTask(t *testing.T, slug, mode string) *asynq.Task {
	t.Helper()
	task, err := queue.NewExportArchiveTask(queue.ExportArchivePayload{Slug: slug, Mode: mode})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandleExportArchiveWritesFile(t *testing.T) {
	consumer, dir := setupConsumerTest(t)
	if err := consumer.handleExportArchive(t.Context(), newArchiveTask(t, "fc-polako", "factory")); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read archive dir failed: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "fc-polako-factory-") {
		t.Fatalf("expected one factory archive, got %v", entries)
	}
	body, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read archive failed: %v", err)
	}
	if strings.Contains(string(body), "PRICE") {
		t.Fatalf("factory archive must not contain prices")
	}
}

func TestHandleExportArchiveSkipsUnknownOrderAndMode(t *testing.T) {
	consumer, dir := setupConsumerTest(t)
	if err := consumer.handleExportArchive(t.Context(), newArchiveTask(t, "ghost", "full")); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
	if err := consumer.handleExportArchive(t.Context(), newArchiveTask(t, "fc-polako", "draft")); err != nil {
		t.Fatalf("invalid mode should be skipped, got %v", err)
	}
	if err := consumer.handleExportArchive(t.Context(), asynq.NewTask(queue.TaskExportArchive, []byte("{"))); err == nil {
		t.Fatalf("malformed payload should fail")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("no archive expected, got %d", len(entries))
	}
}
