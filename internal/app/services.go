package app

import (
	"context"
	"database/sql"
	"fmt"

	"eduexercise/internal/answersheet"
	"eduexercise/internal/app/observability"
	"eduexercise/internal/bank"
	"eduexercise/internal/question"
	"eduexercise/internal/sheet"
	"eduexercise/internal/storage"

	"go.uber.org/zap"
)

// NewBankService wires the question bank service from cfg. The archive and
// PDF rasterizer are optional and stay nil when not configured.
func NewBankService(ctx context.Context, cfg Config, db *sql.DB, obs *observability.Collector, log *zap.Logger) (*bank.Service, error) {
	archive, err := newArchive(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := bank.Options{
		Reader:       sheet.NewXLSX(),
		Writer:       sheet.NewXLSX(),
		Archive:      archive,
		Logger:       log,
		DefaultToken: cfg.DefaultQuizToken,
	}
	if obs != nil {
		opts.Metrics = obs
	}
	if db != nil {
		opts.Store = question.NewSQLStore(db)
	}
	if pdf := newPDFRenderer(cfg, log); pdf != nil {
		opts.PDF = pdf
	}
	return bank.NewService(opts), nil
}

func newArchive(ctx context.Context, cfg Config) (storage.BlobStore, error) {
	switch cfg.ArchiveDriver {
	case "":
		return nil, nil
	case "fs":
		s, err := storage.NewFSStore(cfg.ArchivePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "minio":
		s, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown ARCHIVE_DRIVER %q", cfg.ArchiveDriver)
	}
}

func newPDFRenderer(cfg Config, log *zap.Logger) *answersheet.PDFExporter {
	if cfg.PDFRasterizer != "chrome" {
		return nil
	}
	return answersheet.NewPDFExporter(
		answersheet.NewChromeRasterizer(cfg.ChromePath),
		answersheet.FPDFAssembler{},
		cfg.PDFStagingDir,
		log,
	)
}
