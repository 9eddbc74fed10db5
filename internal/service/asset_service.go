package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	cfg "github.com/linkplace/placeflow/configs"
	"github.com/linkplace/placeflow/internal/apperr"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// AssetService stores article images in Cloudflare R2. The returned public URL
// is embedded in the article body before publishing.
type AssetService struct {
	config cfg.Config
}

func NewAssetService(cfg cfg.Config) *AssetService {
	return &AssetService{config: cfg}
}

func (s *AssetService) r2Client() (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.config.R2.AccessKey, s.config.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.config.R2.AccountID))
	}), nil
}

// UploadArticleImage validates and stores one image, returning its public URL.
func (s *AssetService) UploadArticleImage(ctx context.Context, file []byte) (string, error) {
	allowedTypes := map[string]struct{}{
		"jpeg": {}, "jpg": {}, "png": {}, "webp": {},
	}

	fileType, err := filetype.Match(file)
	if err != nil || fileType == types.Unknown {
		err = apperr.New(apperr.KindValidation, "unsupported image type")
		slog.Info(err.Error())
		return "", err
	}
	if _, ok := allowedTypes[fileType.Extension]; !ok {
		err = apperr.New(apperr.KindValidation, fmt.Sprintf("image type %s is not allowed", fileType.Extension))
		slog.Info(err.Error())
		return "", err
	}

	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	client, err := s.r2Client()
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(fileType.MIME.Value),
	}

	_, err = client.PutObject(ctx, input)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return fmt.Sprintf("%s/%s", s.config.R2.PublicURL, key), nil
}
