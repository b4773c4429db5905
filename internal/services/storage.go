package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/config"
)

// StorageService keeps uploaded resume files. The reference it returns is what
// gets stored on the submission and the resume log.
type StorageService interface {
	Init(ctx context.Context) error
	SaveFile(ctx context.Context, file *multipart.FileHeader, prefix string) (string, string, error)
	ReadFile(ctx context.Context, ref string) ([]byte, error)
	DeleteFile(ctx context.Context, ref string) error
}

func NewStorageService(ctx context.Context, cfg config.StorageConfig) (StorageService, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorageService(cfg.UploadPath), nil
	case "s3":
		return NewS3StorageService(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

func uniqueFileName(prefix, original string) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if !IsSupportedResumeFile(original) {
		return "", fmt.Errorf("invalid file extension: %s", ext)
	}
	return fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext), nil
}

type localStorageService struct {
	uploadPath string
}

func NewLocalStorageService(uploadPath string) StorageService {
	return &localStorageService{
		uploadPath: uploadPath,
	}
}

func (s *localStorageService) Init(_ context.Context) error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *localStorageService) SaveFile(_ context.Context, file *multipart.FileHeader, prefix string) (string, string, error) {
	uniqueFilename, err := uniqueFileName(prefix, file.Filename)
	if err != nil {
		return "", "", err
	}
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *localStorageService) ReadFile(_ context.Context, ref string) ([]byte, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *localStorageService) DeleteFile(_ context.Context, ref string) error {
	if err := os.Remove(ref); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

type s3StorageService struct {
	client *s3.Client
	bucket string
}

func NewS3StorageService(ctx context.Context, cfg config.S3Config) (StorageService, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
	}

	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3StorageService{client: client, bucket: cfg.Bucket}, nil
}

func (s *s3StorageService) Init(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("failed to reach bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *s3StorageService) SaveFile(ctx context.Context, file *multipart.FileHeader, prefix string) (string, string, error) {
	uniqueFilename, err := uniqueFileName(prefix, file.Filename)
	if err != nil {
		return "", "", err
	}
	key := "resumes/" + uniqueFilename

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload object: %w", err)
	}

	return uniqueFilename, key, nil
}

func (s *s3StorageService) ReadFile(ctx context.Context, ref string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *s3StorageService) DeleteFile(ctx context.Context, ref string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
