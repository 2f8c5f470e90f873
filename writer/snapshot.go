// Package writer persists scan snapshots as parquet files, locally and
// optionally to S3.
package writer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	appconfig "arbscan/config"
	"arbscan/internal/models"
	"arbscan/logger"
)

// ParquetRecord is one observed quote in the snapshot file. Outliers are
// included and flagged rather than dropped so the file reflects the full
// observation set.
type ParquetRecord struct {
	RunID     string  `parquet:"name=run_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Connector string  `parquet:"name=connector, type=BYTE_ARRAY, convertedtype=UTF8"`
	Pair      string  `parquet:"name=pair, type=BYTE_ARRAY, convertedtype=UTF8"`
	Timestamp int64   `parquet:"name=timestamp, type=INT64"`
	Price     float64 `parquet:"name=price, type=DOUBLE"`
	Bid       float64 `parquet:"name=bid, type=DOUBLE"`
	Ask       float64 `parquet:"name=ask, type=DOUBLE"`
	Outlier   bool    `parquet:"name=outlier, type=BOOLEAN"`
}

// memoryFileWriter implements ParquetFile for in-memory writing.
type memoryFileWriter struct {
	buffer *bytes.Buffer
}

func newMemoryFileWriter() *memoryFileWriter {
	return &memoryFileWriter{buffer: &bytes.Buffer{}}
}

func (mfw *memoryFileWriter) Create(name string) (source.ParquetFile, error) {
	return mfw, nil
}

func (mfw *memoryFileWriter) Open(name string) (source.ParquetFile, error) {
	return mfw, nil
}

func (mfw *memoryFileWriter) Seek(offset int64, whence int) (int64, error) {
	// Write-only usage; seeking is never exercised.
	return int64(mfw.buffer.Len()), nil
}

func (mfw *memoryFileWriter) Read(b []byte) (int, error) {
	return mfw.buffer.Read(b)
}

func (mfw *memoryFileWriter) Write(b []byte) (int, error) {
	return mfw.buffer.Write(b)
}

func (mfw *memoryFileWriter) Close() error {
	return nil
}

func (mfw *memoryFileWriter) Bytes() []byte {
	return mfw.buffer.Bytes()
}

// SnapshotExporter writes one parquet file per scan run.
type SnapshotExporter struct {
	config   *appconfig.Config
	s3Client *s3.Client
	log      *logger.Log
}

// NewSnapshotExporter builds an exporter. The S3 client is only set up
// when S3 export is enabled in the configuration.
func NewSnapshotExporter(cfg *appconfig.Config) (*SnapshotExporter, error) {
	log := logger.GetLogger()

	e := &SnapshotExporter{
		config: cfg,
		log:    log,
	}
	if !cfg.Export.S3.Enabled {
		return e, nil
	}

	ctx := context.Background()

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Export.S3.Region),
	}
	if cfg.Export.S3.AccessKeyID != "" && cfg.Export.S3.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Export.S3.AccessKeyID,
				cfg.Export.S3.SecretAccessKey,
				"",
			),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.WithComponent("snapshot_exporter").WithError(err).Warn("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	creds, err := awsConfig.Credentials.Retrieve(ctx)
	if err != nil || !creds.HasKeys() {
		return nil, fmt.Errorf("aws credentials not found")
	}

	e.s3Client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Export.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Export.S3.Endpoint)
		}
		o.UsePathStyle = cfg.Export.S3.PathStyle
	})

	log.WithComponent("snapshot_exporter").WithFields(logger.Fields{
		"bucket":     cfg.Export.S3.Bucket,
		"region":     cfg.Export.S3.Region,
		"endpoint":   cfg.Export.S3.Endpoint,
		"path_style": cfg.Export.S3.PathStyle,
	}).Info("s3 export enabled")

	return e, nil
}

// Export writes the report's quotes to a local parquet file and, when
// configured, uploads the same bytes to S3. It returns the local path.
func (e *SnapshotExporter) Export(ctx context.Context, rep *models.Report) (string, error) {
	log := e.log.WithComponent("snapshot_exporter").WithFields(logger.Fields{
		"run_id":    rep.RunID,
		"operation": "export",
	})

	records := buildRecords(rep)
	if len(records) == 0 {
		return "", fmt.Errorf("report has no quotes to export")
	}

	data, err := e.createParquetFile(records)
	if err != nil {
		return "", fmt.Errorf("failed to create parquet file: %w", err)
	}

	filename := fmt.Sprintf("scan_%s_%s.parquet",
		rep.GeneratedAt.UTC().Format("20060102150405"), rep.RunID)

	dir := e.config.Export.Directory
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot file: %w", err)
	}

	log.WithFields(logger.Fields{
		"path":      path,
		"file_size": len(data),
		"records":   len(records),
	}).Info("snapshot written")

	if e.s3Client != nil {
		if err := e.uploadToS3(ctx, rep, filename, data); err != nil {
			// Local file survives; the upload failure is reported, not fatal.
			log.WithError(err).
				WithEnv("S3_BUCKET").
				WithFields(logger.Fields{"bucket": e.config.Export.S3.Bucket}).
				Warn("failed to upload snapshot to S3")
		}
	}

	e.log.LogMetric("snapshot_exporter", "records_exported", len(records), "counter", logger.Fields{
		"run_id": rep.RunID,
	})

	return path, nil
}

// buildRecords flattens kept and outlier quotes into parquet rows.
func buildRecords(rep *models.Report) []ParquetRecord {
	ts := rep.GeneratedAt.UnixMilli()

	toRecord := func(q models.Quote, outlier bool) ParquetRecord {
		rec := ParquetRecord{
			RunID:     rep.RunID,
			Connector: q.Venue,
			Pair:      q.Pair,
			Timestamp: ts,
			Price:     q.Price,
			Outlier:   outlier,
		}
		if q.Bid != nil {
			rec.Bid = *q.Bid
		}
		if q.Ask != nil {
			rec.Ask = *q.Ask
		}
		return rec
	}

	records := make([]ParquetRecord, 0, len(rep.Prices)+len(rep.Outliers))
	for _, q := range rep.Prices {
		records = append(records, toRecord(q, false))
	}
	for _, q := range rep.Outliers {
		records = append(records, toRecord(q, true))
	}
	return records
}

func (e *SnapshotExporter) createParquetFile(records []ParquetRecord) ([]byte, error) {
	fw := newMemoryFileWriter()

	pw, err := writer.NewParquetWriter(fw, new(ParquetRecord), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range records {
		if err := pw.Write(rec); err != nil {
			pw.WriteStop()
			return nil, fmt.Errorf("failed to write parquet record: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet writing: %w", err)
	}

	return fw.Bytes(), nil
}

func (e *SnapshotExporter) uploadToS3(ctx context.Context, rep *models.Report, filename string, data []byte) error {
	key := filepath.ToSlash(filepath.Join(
		e.config.Export.S3.Prefix,
		fmt.Sprintf("date=%s", rep.GeneratedAt.UTC().Format("2006-01-02")),
		filename,
	))

	input := &s3.PutObjectInput{
		Bucket:      aws.String(e.config.Export.S3.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
		Metadata: map[string]string{
			"content-type":    "parquet",
			"arbscan-version": e.config.Arbscan.Version,
			"run-id":          rep.RunID,
		},
	}

	_, err := e.s3Client.PutObject(context.WithoutCancel(ctx), input)
	if err != nil {
		return fmt.Errorf("failed to upload to S3 bucket %s: %w", e.config.Export.S3.Bucket, err)
	}

	e.log.WithComponent("snapshot_exporter").WithFields(logger.Fields{
		"s3_key":    key,
		"data_size": len(data),
	}).Info("snapshot uploaded to S3")
	return nil
}
