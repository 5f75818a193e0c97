package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Client is the subset of the S3 API the sink needs. Narrowed for mock
// injection in tests.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures the archival sink.
type S3Config struct {
	Bucket      string `env:"AUDIT_S3_BUCKET,required"`
	Region      string `env:"AUDIT_S3_REGION" envDefault:"us-east-1"`
	AccessKeyID string `env:"AUDIT_S3_ACCESS_KEY_ID"`
	SecretKey   string `env:"AUDIT_S3_SECRET_KEY"`
	Endpoint    string `env:"AUDIT_S3_ENDPOINT"` // optional, for S3-compatible stores
	Prefix      string `env:"AUDIT_S3_PREFIX" envDefault:"authz-decisions"`
	BatchSize   int    `env:"AUDIT_S3_BATCH_SIZE" envDefault:"500"`
}

// S3Sink archives decision events to S3 as batched JSON-lines objects,
// one object per flushed batch, keyed by timestamp. Objects are written
// once and never rewritten, preserving the append-only property at the
// object level.
type S3Sink struct {
	client    S3Client
	bucket    string
	prefix    string
	batchSize int

	mu     sync.Mutex
	buf    []Event
	closed bool
}

// S3SinkOption configures the sink.
type S3SinkOption func(*S3Sink)

// WithS3Client injects a pre-built client, bypassing AWS config loading.
func WithS3Client(client S3Client) S3SinkOption {
	return func(s *S3Sink) { s.client = client }
}

// NewS3Sink creates the archival sink. Without WithS3Client it builds a
// client from cfg, using static credentials when provided and the default
// AWS credential chain otherwise.
func NewS3Sink(ctx context.Context, cfg S3Config, opts ...S3SinkOption) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("audit: s3 bucket is required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}

	sink := &S3Sink{
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		batchSize: cfg.BatchSize,
	}
	for _, opt := range opts {
		opt(sink)
	}

	if sink.client == nil {
		loadOpts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.Join(ErrSinkUnavailable, err)
		}
		sink.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
				o.UsePathStyle = true
			}
		})
	}

	return sink, nil
}

// Write implements Sink. Events accumulate until the batch size is
// reached, then the batch is flushed as a single object.
func (s *S3Sink) Write(ctx context.Context, event Event) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSinkClosed
	}
	s.buf = append(s.buf, event)
	var batch []Event
	if len(s.buf) >= s.batchSize {
		batch = s.buf
		s.buf = nil
	}
	s.mu.Unlock()

	if batch == nil {
		return nil
	}
	return s.putBatch(ctx, batch)
}

// Close flushes any buffered events.
func (s *S3Sink) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	batch := s.buf
	s.buf = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	return s.putBatch(ctx, batch)
}

func (s *S3Sink) putBatch(ctx context.Context, batch []Event) error {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, e := range batch {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}

	// Key layout: <prefix>/2006/01/02/150405-<uuid>.jsonl
	now := time.Now().UTC()
	key := fmt.Sprintf("%s/%s/%s-%s.jsonl",
		s.prefix,
		now.Format("2006/01/02"),
		now.Format("150405"),
		uuid.NewString(),
	)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return errors.Join(ErrSinkUnavailable, err)
	}
	return nil
}
