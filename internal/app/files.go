package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	cqerrors "github.com/berrythewa/clipqr/internal/errors"
	"github.com/berrythewa/clipqr/internal/history"
	"github.com/berrythewa/clipqr/internal/types"
	"github.com/berrythewa/clipqr/pkg/format"
)

const sniffLen = 512

// ProcessFile ingests one file. Oversized files are rejected before any
// read or network call. With an uploader the hosted link becomes the payload
// and is recorded only if it renders as a QR symbol; without one the file is
// rendered locally under the same rule.
func (a *App) ProcessFile(ctx context.Context, f *types.File) error {
	if f == nil {
		return cqerrors.NewUnusableInput()
	}
	if f.Size > a.maxFileSize {
		err := cqerrors.NewOversizedInput(f.Name, f.Size, a.maxFileSize)
		a.warn(fmt.Sprintf("File too large (max %s)", format.FormatSize(a.maxFileSize)))
		return err
	}

	if f.Type == "" {
		f.Type = DetectType(f)
	}
	preview := &Preview{
		Name:      f.Name,
		TypeSize:  format.TypeSize(f.Type, f.Size),
		Thumbnail: a.thumbnail(f),
	}

	if a.uploader == nil {
		return a.renderLocal(f, preview)
	}
	return a.upload(ctx, f, preview)
}

// ProcessFiles ingests files picked together, one at a time. Failures are
// reported per file and do not stop the rest.
func (a *App) ProcessFiles(ctx context.Context, files []*types.File) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.ProcessFile(ctx, f); err != nil {
			a.logger.Info("File processing failed",
				zap.String("name", f.Name),
				zap.Error(err))
		}
	}
	return nil
}

func (a *App) upload(ctx context.Context, f *types.File, preview *Preview) error {
	if !a.uploading.CompareAndSwap(false, true) {
		a.warn("An upload is already in progress")
		return cqerrors.NewUploadInProgress()
	}
	defer a.uploading.Store(false)

	a.mu.Lock()
	a.preview = preview
	a.mu.Unlock()

	link, err := a.uploader.Upload(ctx, f)
	if err != nil {
		a.warn("Upload failed, check your connection and try again")
		return err
	}

	res := a.emitter.Emit(link)

	a.mu.Lock()
	a.input = link
	a.last = res
	a.mu.Unlock()

	if !res.OK {
		return res.Err
	}
	a.store.Add(link, history.Options{
		Label:       f.Name,
		TypeSize:    preview.TypeSize,
		Thumbnail:   preview.Thumbnail,
		DisplayText: link,
	})
	return nil
}

// renderLocal encodes the trimmed text of text files and a data URI for
// anything else.
func (a *App) renderLocal(f *types.File, preview *Preview) error {
	data, err := readAll(f, a.maxFileSize)
	if err != nil {
		a.warn(fmt.Sprintf("Could not read %s", f.Name))
		return cqerrors.NewInternal(fmt.Errorf("failed to read file: %w", err))
	}

	var payload string
	if isText(f.Type, data) {
		payload = strings.TrimSpace(string(data))
	} else {
		payload = DataURI(f.Type, data)
	}
	if payload == "" {
		return cqerrors.NewUnusableInput()
	}

	res := a.emitter.Emit(payload)

	a.mu.Lock()
	a.preview = preview
	a.input = payload
	a.last = res
	a.mu.Unlock()

	if !res.OK {
		return res.Err
	}
	a.store.Add(payload, history.Options{
		Label:     f.Name,
		TypeSize:  preview.TypeSize,
		Thumbnail: preview.Thumbnail,
	})
	return nil
}

// thumbnail returns a data URI for small images and the placeholder for
// everything else.
func (a *App) thumbnail(f *types.File) string {
	if !strings.HasPrefix(f.Type, "image/") || f.Size > a.thumbnailMaxSize {
		return history.PlaceholderThumbnail
	}
	data, err := readAll(f, a.thumbnailMaxSize)
	if err != nil {
		a.logger.Debug("Thumbnail unavailable",
			zap.String("name", f.Name),
			zap.Error(err))
		return history.PlaceholderThumbnail
	}
	return DataURI(f.Type, data)
}

// DetectType guesses the media type of f from its extension, then from its
// first bytes. It falls back to application/octet-stream.
func DetectType(f *types.File) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name))); t != "" {
		return t
	}
	if f.Open == nil {
		return "application/octet-stream"
	}
	rc, err := f.Open()
	if err != nil {
		return "application/octet-stream"
	}
	defer rc.Close()
	head := make([]byte, sniffLen)
	n, _ := io.ReadFull(rc, head)
	return http.DetectContentType(head[:n])
}

// DataURI encodes data as a base64 data URI
func DataURI(mediaType string, data []byte) string {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func isText(mediaType string, data []byte) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		mt = mediaType
	}
	if !strings.HasPrefix(mt, "text/") && mt != "application/json" && mt != "application/xml" {
		return false
	}
	return utf8.Valid(data) && !bytes.ContainsRune(data, 0)
}

func readAll(f *types.File, limit int64) ([]byte, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("file %q has no content", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file %q exceeds %d bytes", f.Name, limit)
	}
	return data, nil
}
