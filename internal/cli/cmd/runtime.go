package cmd

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/berrythewa/clipqr/internal/app"
	"github.com/berrythewa/clipqr/internal/config"
	"github.com/berrythewa/clipqr/internal/history"
	"github.com/berrythewa/clipqr/internal/panel"
	"github.com/berrythewa/clipqr/internal/qr"
	"github.com/berrythewa/clipqr/internal/storage"
	"github.com/berrythewa/clipqr/internal/upload"
)

const dbOpenTimeout = 2 * time.Second

// runtime is the wired application for one command invocation
type runtime struct {
	db     *storage.BoltStorage
	app    *app.App
	logger *zap.Logger
}

type runtimeOptions struct {
	// local forces local rendering even when uploads are enabled
	local bool
}

// openRuntime opens the history database and wires the application from cfg
func openRuntime(cfg *config.Config, logger *zap.Logger, opts runtimeOptions) (*runtime, error) {
	db, err := storage.NewBoltStorage(storage.StorageConfig{
		DBPath:  cfg.Storage.DBPath,
		Bucket:  cfg.Storage.Bucket,
		Timeout: dbOpenTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database (is another clipqr running?): %w", err)
	}

	store := history.NewStore(history.StoreConfig{
		Slot:        db,
		Key:         cfg.Storage.HistoryKey,
		Limit:       cfg.History.Limit,
		LabelLength: cfg.History.LabelLength,
		Logger:      logger,
	})
	store.Load()

	if _, err := qr.ParseLevel(cfg.QR.RecoveryLevel); err != nil {
		db.Close()
		return nil, err
	}
	emitter := qr.NewEmitter(qr.EmitterConfig{
		Encoder: qr.NewSymbolEncoder(cfg.QR.RecoveryLevel),
		Width:   cfg.QR.Width,
		Height:  cfg.QR.Height,
		Logger:  logger,
	})

	var uploader app.Uploader
	if cfg.Upload.Enabled && !opts.local {
		uploader = upload.NewClient(upload.ClientConfig{
			Endpoint: cfg.Upload.Endpoint,
			Timeout:  cfg.Upload.Timeout,
			Logger:   logger,
		})
	}

	a := app.New(app.Config{
		Store:   store,
		Emitter: emitter,
		Panel: panel.NewController(panel.Config{
			Threshold: cfg.Panel.DragThreshold,
			Logger:    logger,
		}),
		Uploader:         uploader,
		Logger:           logger,
		DefaultPayload:   cfg.QR.DefaultPayload,
		MaxFileSize:      cfg.Upload.MaxFileSize,
		ThumbnailMaxSize: cfg.Upload.ThumbnailMaxSize,
	})

	logger.Debug("Runtime ready",
		zap.String("db", db.Path()),
		zap.Int("history", store.Len()),
		zap.Bool("upload", uploader != nil))

	return &runtime{db: db, app: a, logger: logger}, nil
}

// Close releases the history database
func (r *runtime) Close() error {
	return r.db.Close()
}
