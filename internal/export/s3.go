package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cenkalti/backoff/v5"
	"github.com/donorhub/dhs/internal/config"
	"github.com/donorhub/dhs/internal/logger"
)

// uploadTries 单次上传的最大尝试次数
const uploadTries = 5

// ObjectPutter 是 s3.Client 中上传用到的部分
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader 上传到 S3 或兼容存储，失败按指数退避重试
type S3Uploader struct {
	client  ObjectPutter
	bucket  string
	backOff func() backoff.BackOff
}

// NewS3Uploader 按配置创建 S3 客户端，endpoint 非空时使用路径风格访问
func NewS3Uploader(ctx context.Context, cfg config.ExportConfig) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("export bucket is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3UploaderWithClient(client, cfg.Bucket), nil
}

// NewS3UploaderWithClient 使用已有客户端
func NewS3UploaderWithClient(client ObjectPutter, bucket string) *S3Uploader {
	return &S3Uploader{
		client: client,
		bucket: bucket,
		backOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Upload 上传 CSV 对象
func (u *S3Uploader) Upload(ctx context.Context, key string, body []byte) error {
	operation := func() (*s3.PutObjectOutput, error) {
		return u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(u.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String("text/csv"),
		})
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(u.backOff()),
		backoff.WithMaxTries(uploadTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn("Upload of s3://%s/%s failed, retrying in %s: %v", u.bucket, key, next, err)
		}),
	)
	return err
}
