package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"
)

const (
	DefaultArchiveExpiry = 24 * time.Hour
	pdfContentType       = "application/pdf"
)

// ArchivedReport points at an uploaded report.
type ArchivedReport struct {
	ObjectName string
	URL        string
	ExpiresIn  time.Duration
}

type ReportArchiver interface {
	// Archive uploads the report under prefix (which may be empty) and returns a presigned download URL.
	Archive(ctx context.Context, report *Report, prefix string) (*ArchivedReport, error)
}

type reportArchiver struct {
	minio  MinioService
	bucket string
	expiry time.Duration
}

func NewReportArchiver(minio MinioService, bucket string, expiry time.Duration) ReportArchiver {
	if expiry <= 0 {
		expiry = DefaultArchiveExpiry
	}
	return &reportArchiver{minio: minio, bucket: bucket, expiry: expiry}
}

func (a *reportArchiver) Archive(ctx context.Context, report *Report, prefix string) (*ArchivedReport, error) {
	if err := a.minio.EnsureBucketExists(ctx, a.bucket); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", a.bucket, err)
	}

	objectName := report.Filename
	if prefix != "" {
		objectName = path.Join(prefix, report.Filename)
	}
	if err := a.minio.UploadObject(ctx, a.bucket, objectName, bytes.NewReader(report.Content), int64(len(report.Content)), pdfContentType); err != nil {
		return nil, fmt.Errorf("upload %s: %w", objectName, err)
	}

	url, err := a.minio.GetPresignedURL(ctx, a.bucket, objectName, a.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", objectName, err)
	}
	return &ArchivedReport{ObjectName: objectName, URL: url, ExpiresIn: a.expiry}, nil
}
