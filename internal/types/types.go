package types

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ItemKind is the kind of a paste or drop item
type ItemKind string

const (
	KindString ItemKind = "string"
	KindFile   ItemKind = "file"
)

// Media types the ingestion path cares about
const (
	MediaPlainText = "text/plain"
	MediaURIList   = "text/uri-list"
	MediaHTML      = "text/html"
	MediaJSON      = "application/json"
)

// HistoryRecord is one entry of the recent-items history.
// Content is the canonical payload encoded into the QR symbol.
type HistoryRecord struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Label       string    `json:"label"`
	TypeSize    string    `json:"typeSize,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	DisplayText string    `json:"displayText,omitempty"`
	Created     time.Time `json:"created"`
}

// Text returns what should be restored into the input field when the
// record is reselected.
func (r HistoryRecord) Text() string {
	if r.DisplayText != "" {
		return r.DisplayText
	}
	if r.Content != "" {
		return r.Content
	}
	return r.Label
}

// Candidate is a single {type, text} pair taken from one paste or drop event.
// Candidates are never persisted.
type Candidate struct {
	Type string
	Text string
}

// StringReader reads the string payload of a string-kind item. Reads may block.
type StringReader func(ctx context.Context) (string, error)

// Item is one entry of a paste or drop event
type Item struct {
	Kind ItemKind
	Type string
	Read StringReader
	File *File
}

// StringItem returns a string-kind item whose payload is already known.
func StringItem(mediaType, text string) Item {
	return Item{
		Kind: KindString,
		Type: mediaType,
		Read: func(context.Context) (string, error) { return text, nil },
	}
}

// FileItem returns a file-kind item.
func FileItem(f *File) Item {
	mediaType := ""
	if f != nil {
		mediaType = f.Type
	}
	return Item{Kind: KindFile, Type: mediaType, File: f}
}

// File is a file handed over by a paste, a drop or the file picker
type File struct {
	Name string
	Type string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FileFromBytes wraps in-memory data as a File.
func FileFromBytes(name, mediaType string, data []byte) *File {
	return &File{
		Name: name,
		Type: mediaType,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FileFromPath stats a file on disk. The media type is left for the caller
// to detect.
func FileFromPath(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}
