package writer

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	appconfig "arbscan/config"
	"arbscan/internal/models"
)

func testReport() *models.Report {
	bid, ask := 49990.0, 50010.0
	return &models.Report{
		RunID:       "run-42",
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Prices: []models.Quote{
			{Venue: "exchange_x", Pair: "BTC-USDT", Price: 50000, Bid: &bid, Ask: &ask},
			{Venue: "exchange_y", Pair: "BTC-USDC", Price: 50500},
		},
		Outliers: []models.Quote{
			{Venue: "exchange_z", Pair: "BTC-USDT", Price: 90000},
		},
	}
}

func TestBuildRecords(t *testing.T) {
	records := buildRecords(testReport())
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	first := records[0]
	if first.RunID != "run-42" || first.Connector != "exchange_x" || first.Outlier {
		t.Errorf("first record = %+v", first)
	}
	if first.Bid != 49990.0 || first.Ask != 50010.0 {
		t.Errorf("bid/ask = %v/%v", first.Bid, first.Ask)
	}

	// Absent bid/ask flattens to zero, outliers are flagged.
	if records[1].Bid != 0 || records[1].Ask != 0 {
		t.Errorf("second record bid/ask = %v/%v", records[1].Bid, records[1].Ask)
	}
	if !records[2].Outlier {
		t.Error("outlier record not flagged")
	}
}

func TestExportWritesLocalParquet(t *testing.T) {
	cfg := appconfig.Default()
	cfg.Export.Directory = t.TempDir()

	exporter, err := NewSnapshotExporter(cfg)
	if err != nil {
		t.Fatalf("NewSnapshotExporter() error: %v", err)
	}

	path, err := exporter.Export(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if !strings.HasSuffix(path, ".parquet") || !strings.Contains(path, "run-42") {
		t.Errorf("path = %q", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("snapshot file is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Parquet files carry the PAR1 magic at both ends.
	if len(data) < 8 || string(data[:4]) != "PAR1" || string(data[len(data)-4:]) != "PAR1" {
		t.Error("output is not a parquet file")
	}
}

func TestExportEmptyReport(t *testing.T) {
	cfg := appconfig.Default()
	cfg.Export.Directory = t.TempDir()

	exporter, err := NewSnapshotExporter(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := exporter.Export(context.Background(), &models.Report{RunID: "empty"}); err == nil {
		t.Error("Export() of empty report = nil error, want error")
	}
}
