package ingest

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/berrythewa/clipqr/internal/types"
)

// FileHandler processes one file of a paste, drop or file pick.
type FileHandler interface {
	ProcessFile(ctx context.Context, f *types.File) error
}

// PayloadHandler receives the canonical payload resolved from string items.
type PayloadHandler interface {
	HandlePayload(ctx context.Context, payload string) error
}

// RouterConfig holds the collaborators of a Router
type RouterConfig struct {
	Files    FileHandler
	Payloads PayloadHandler
	Logger   *zap.Logger
}

// Router is the entry point for paste and drop events. It decides between
// file ingestion and string ingestion for each event.
type Router struct {
	files    FileHandler
	payloads PayloadHandler
	logger   *zap.Logger
}

// NewRouter creates a new Router
func NewRouter(cfg RouterConfig) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		files:    cfg.Files,
		payloads: cfg.Payloads,
		logger:   logger,
	}
}

// Handle routes the items of one event. Files take exclusive precedence over
// strings in the same event and are processed one at a time. An event with
// nothing usable is a silent no-op. The only error returned is the context's.
func (r *Router) Handle(ctx context.Context, items []types.Item) error {
	var files []*types.File
	var strs []types.Item
	for _, item := range items {
		switch item.Kind {
		case types.KindFile:
			if item.File != nil {
				files = append(files, item.File)
			}
		case types.KindString:
			strs = append(strs, item)
		}
	}

	if len(files) > 0 {
		if len(strs) > 0 {
			r.logger.Debug("Ignoring string items in file event",
				zap.Int("files", len(files)),
				zap.Int("strings", len(strs)))
		}
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			if r.files == nil {
				continue
			}
			if err := r.files.ProcessFile(ctx, f); err != nil {
				r.logger.Info("File processing failed",
					zap.String("name", f.Name),
					zap.Error(err))
			}
		}
		return nil
	}

	payload, ok, err := r.Resolve(ctx, strs)
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(payload) == "" {
		r.logger.Debug("No usable payload in event", zap.Int("items", len(strs)))
		return nil
	}
	if r.payloads == nil {
		return nil
	}
	if err := r.payloads.HandlePayload(ctx, payload); err != nil {
		r.logger.Info("Payload handling failed", zap.Error(err))
	}
	return nil
}

// Resolve reads every string item, waits for all reads to finish, drops noise
// and picks the canonical payload. A failed read counts as an empty candidate.
func (r *Router) Resolve(ctx context.Context, items []types.Item) (string, bool, error) {
	candidates, err := r.readAll(ctx, items)
	if err != nil {
		return "", false, err
	}
	payload, ok := Pick(FilterNoise(candidates))
	return payload, ok, nil
}

func (r *Router) readAll(ctx context.Context, items []types.Item) ([]types.Candidate, error) {
	candidates := make([]types.Candidate, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		candidates[i].Type = item.Type
		if item.Read == nil {
			continue
		}
		g.Go(func() error {
			text, err := item.Read(gctx)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				r.logger.Warn("Failed to read string item",
					zap.String("type", item.Type),
					zap.Error(err))
				return nil
			}
			candidates[i].Text = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return candidates, nil
}
