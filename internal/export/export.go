// Package export uploads ranked shortlists to S3-compatible object storage.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	appconfig "github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/logger"
	"github.com/jonathan/talent-match/internal/scorecache"
	"github.com/jonathan/talent-match/internal/types"
)

// Uploader is the subset of the S3 client used for exports
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Shortlist is the exported document
type Shortlist struct {
	CriteriaKey string                 `json:"criteria_key"`
	Criteria    types.MatchCriteria    `json:"criteria"`
	GeneratedAt time.Time              `json:"generated_at"`
	Results     types.RankedCandidates `json:"results"`
}

// Exporter writes shortlists under <prefix>/<criteria-key>/<timestamp>.json
type Exporter struct {
	client Uploader
	bucket string
	prefix string
	now    func() time.Time
	logger *zap.Logger
}

// NewExporter creates an exporter. An empty prefix writes at the bucket root.
func NewExporter(client Uploader, bucket, prefix string, log *zap.Logger) *Exporter {
	return &Exporter{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
		logger: logger.OrNop(log),
	}
}

// ObjectKey returns the key a shortlist generated at t is stored under
func (e *Exporter) ObjectKey(criteriaKey string, t time.Time) string {
	name := t.UTC().Format("20060102T150405Z") + ".json"
	if e.prefix == "" {
		return path.Join(criteriaKey, name)
	}
	return path.Join(e.prefix, criteriaKey, name)
}

// Export uploads ranked results and returns the object key.
func (e *Exporter) Export(ctx context.Context, criteria types.MatchCriteria, ranked *types.RankedCandidates) (string, error) {
	if e.bucket == "" {
		return "", fmt.Errorf("export bucket is not configured")
	}
	if ranked == nil {
		ranked = &types.RankedCandidates{Ranked: []types.RankedCandidate{}}
	}

	criteriaKey, err := scorecache.CriteriaKey(criteria)
	if err != nil {
		return "", err
	}

	doc := Shortlist{
		CriteriaKey: criteriaKey,
		Criteria:    criteria,
		GeneratedAt: e.now().UTC(),
		Results:     *ranked,
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal shortlist: %w", err)
	}

	key := e.ObjectKey(criteriaKey, doc.GeneratedAt)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload shortlist to s3://%s/%s: %w", e.bucket, key, err)
	}

	e.logger.Info("shortlist exported",
		zap.String("bucket", e.bucket),
		zap.String("key", key),
		zap.Int("candidates", len(ranked.Ranked)),
	)
	return key, nil
}

// NewS3Client builds an S3 client from export settings. A custom endpoint (R2, MinIO) uses
// path-style addressing.
func NewS3Client(ctx context.Context, cfg appconfig.ExportConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
