package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"clientportal/internal/config"
	"clientportal/internal/report"
)

// ObjectUploader is the part of manager.Uploader the exporter needs.
type ObjectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type ExportResult struct {
	Key  string `json:"key"`
	URL  string `json:"url,omitempty"`
	Size int    `json:"size"`
}

// ReportExporter writes rendered dashboards to S3 as JSON documents.
type ReportExporter struct {
	uploader      ObjectUploader
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

func NewReportExporter(cfg *config.S3Config) *ReportExporter {
	return NewReportExporterWithUploader(manager.NewUploader(cfg.Client), cfg.Bucket, cfg.PublicBaseURL)
}

func NewReportExporterWithUploader(up ObjectUploader, bucket, publicBaseURL string) *ReportExporter {
	return &ReportExporter{
		uploader:      up,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}
}

func (e *ReportExporter) Export(ctx context.Context, clientKey string, view report.DashboardView) (*ExportResult, error) {
	body, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	key := path.Join("reports", clientKey, e.now().UTC().Format("2006-01-02"), uuid.NewString()+".json")
	_, err = e.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(e.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-store"),
	})
	if err != nil {
		return nil, fmt.Errorf("upload report %s: %w", key, err)
	}

	res := &ExportResult{Key: key, Size: len(body)}
	if e.publicBaseURL != "" {
		res.URL = e.publicBaseURL + "/" + key
	}
	return res, nil
}
