package service

import (
	"context"
	"engolo_backend/internal/config"
	"engolo_backend/pkg/logger"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

// StorageProvider abstracts where uploaded media lands.
type StorageProvider interface {
	Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

type LocalProvider struct {
	BasePath string
}

func (p *LocalProvider) Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	path := filepath.Join(p.BasePath, objectName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return "", err
	}
	return "/uploads/" + objectName, nil
}

type MinioProvider struct {
	Client *minio.Client
	Bucket string
}

func NewMinioProvider(cfg config.StorageConfig) (*MinioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &MinioProvider{Client: client, Bucket: cfg.MinioBucket}, nil
}

func (p *MinioProvider) Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/%s/%s", p.Bucket, objectName), nil
}

// StorageService handles listening-exercise audio uploads: normalize the clip
// to mp3 with ffmpeg, then hand it to the configured provider.
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	switch cfg.Type {
	case "minio":
		p, err := NewMinioProvider(cfg)
		if err != nil {
			return nil, err
		}
		return &StorageService{Provider: p}, nil
	case "local", "":
		base := cfg.LocalPath
		if base == "" {
			base = "uploads"
		}
		return &StorageService{Provider: &LocalProvider{BasePath: base}}, nil
	default:
		return nil, fmt.Errorf("storage: unknown provider %q", cfg.Type)
	}
}

var allowedAudioExt = map[string]bool{
	".mp3": true, ".wav": true, ".ogg": true, ".m4a": true, ".webm": true,
}

// UploadExerciseAudio stores a pronunciation clip and returns its public URL.
func (s *StorageService) UploadExerciseAudio(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAudioExt[ext] {
		return "", fmt.Errorf("storage: unsupported audio format %q", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmpDir, err := os.MkdirTemp("", "engolo-audio-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	rawPath := filepath.Join(tmpDir, "in"+ext)
	raw, err := os.Create(rawPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(raw, src); err != nil {
		raw.Close()
		return "", err
	}
	raw.Close()

	uploadPath := rawPath
	contentType := file.Header.Get("Content-Type")
	if ext != ".mp3" {
		mp3Path := filepath.Join(tmpDir, "out.mp3")
		if err := transcodeToMP3(rawPath, mp3Path); err != nil {
			// Serve the original rather than failing the upload.
			logger.Log.Warn("audio transcode failed, storing original", zap.Error(err))
		} else {
			uploadPath = mp3Path
			contentType = "audio/mpeg"
			ext = ".mp3"
		}
	}

	out, err := os.Open(uploadPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	info, err := out.Stat()
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("audio/%s%s", uuid.NewString(), ext)
	return s.Provider.Save(ctx, objectName, out, info.Size(), contentType)
}

func transcodeToMP3(in, out string) error {
	return ffmpeg.Input(in).
		Output(out, ffmpeg.KwArgs{"acodec": "libmp3lame", "ab": "128k"}).
		OverWriteOutput().
		Silent(true).
		Run()
}
