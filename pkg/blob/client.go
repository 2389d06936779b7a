package blob

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"sentinel/config"
)

// Client 音频证据对象存储接口
type Client interface {
	// PresignUpload 生成限时上传地址，客户端直传不经过服务端
	PresignUpload(ctx context.Context, objectName string) (string, error)
	// PublicURL 对象的可访问地址，写入警报与录音记录
	PublicURL(objectName string) string
	// Remove 删除对象
	Remove(ctx context.Context, objectName string) error
}

var defaultClient Client

// Init 初始化 MinIO 客户端并确保桶存在
func Init() error {
	mc, err := minio.New(config.Cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Cfg.MinioAccessKey, config.Cfg.MinioSecretKey, ""),
		Secure: config.Cfg.MinioUseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := mc.BucketExists(ctx, config.Cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, config.Cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		zap.L().Info("bucket created", zap.String("bucket", config.Cfg.MinioBucket))
	}

	defaultClient = &minioClient{
		client: mc,
		bucket: config.Cfg.MinioBucket,
	}
	zap.L().Info("object storage connected",
		zap.String("endpoint", config.Cfg.MinioEndpoint),
		zap.String("bucket", config.Cfg.MinioBucket),
	)
	return nil
}

// GetClient 获取对象存储客户端，未初始化时返回 nil
func GetClient() Client {
	return defaultClient
}

type minioClient struct {
	client *minio.Client
	bucket string
}

func (c *minioClient) PresignUpload(ctx context.Context, objectName string) (string, error) {
	ttl := time.Duration(config.Cfg.UploadTTLMinutes) * time.Minute
	u, err := c.client.PresignedPutObject(ctx, c.bucket, objectName, ttl)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return u.String(), nil
}

func (c *minioClient) PublicURL(objectName string) string {
	if base := config.Cfg.MinioPublicBaseURL; base != "" {
		return strings.TrimRight(base, "/") + "/" + c.bucket + "/" + objectName
	}
	scheme := "http"
	if config.Cfg.MinioUseSSL {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: config.Cfg.MinioEndpoint, Path: "/" + c.bucket + "/" + objectName}
	return u.String()
}

func (c *minioClient) Remove(ctx context.Context, objectName string) error {
	return c.client.RemoveObject(ctx, c.bucket, objectName, minio.RemoveObjectOptions{})
}
