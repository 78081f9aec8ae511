package history

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	cqerrors "github.com/berrythewa/clipqr/internal/errors"
	"github.com/berrythewa/clipqr/internal/storage"
	"github.com/berrythewa/clipqr/internal/types"
	"github.com/berrythewa/clipqr/pkg/format"
	"github.com/berrythewa/clipqr/pkg/utils"
)

const (
	// DefaultLimit caps the number of records kept
	DefaultLimit = 100
	// DefaultLabelLength is the number of visible runes of a derived label
	DefaultLabelLength = 50
	// DefaultKey is the storage slot holding the serialized records
	DefaultKey = "recent-items"
)

// transientSchemes prefix contents that point at process-local objects and
// cannot survive a reload.
var transientSchemes = []string{"blob:"}

// Options carries optional metadata for Add. A zero field falls back to its
// default: Label derives from the content, the rest stay empty.
type Options struct {
	Label       string
	TypeSize    string
	Thumbnail   string
	DisplayText string
}

// StoreConfig holds configuration for a Store
type StoreConfig struct {
	Slot        storage.Slot
	Key         string
	Limit       int
	LabelLength int
	Logger      *zap.Logger

	// NewID and Now are replaceable for tests
	NewID func() string
	Now   func() time.Time
}

// Store is the bounded, deduplicated, most-recent-first list of history
// records. Every mutation is persisted eagerly; persistence failures are
// logged and never returned, the in-memory list stays authoritative.
type Store struct {
	mu          sync.Mutex
	records     []types.HistoryRecord
	slot        storage.Slot
	key         string
	limit       int
	labelLength int
	logger      *zap.Logger
	newID       func() string
	now         func() time.Time
	// persistErr is the last storage failure, nil once a write succeeds
	persistErr error
}

// NewStore creates an empty Store. Call Load to read persisted records.
func NewStore(cfg StoreConfig) *Store {
	s := &Store{
		slot:        cfg.Slot,
		key:         cfg.Key,
		limit:       cfg.Limit,
		labelLength: cfg.LabelLength,
		logger:      cfg.Logger,
		newID:       cfg.NewID,
		now:         cfg.Now,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.limit <= 0 {
		s.limit = DefaultLimit
	}
	if s.labelLength <= 0 {
		s.labelLength = DefaultLabelLength
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.newID == nil {
		s.newID = utils.NewRecordID
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Load replaces the in-memory records with the persisted ones. Unreadable
// or corrupt data resets the store to empty. Records with empty or
// transient content are dropped, as are duplicates and anything past the limit.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.persistErr = nil
	if s.slot == nil {
		return
	}

	data, err := s.slot.Get(s.key)
	if err != nil {
		s.persistErr = cqerrors.NewPersistence("read history", err)
		s.logger.Warn("Failed to read history, starting empty", zap.Error(s.persistErr))
		return
	}
	if len(data) == 0 {
		return
	}

	var stored []types.HistoryRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("Failed to parse history, starting empty", zap.Error(err))
		return
	}

	seen := make(map[string]bool, len(stored))
	dropped := 0
	for _, r := range stored {
		if strings.TrimSpace(r.Content) == "" || isTransient(r.Content) || seen[r.Content] {
			dropped++
			continue
		}
		if r.ID == "" {
			r.ID = s.newID()
		}
		seen[r.Content] = true
		s.records = append(s.records, r)
	}
	if len(s.records) > s.limit {
		dropped += len(s.records) - s.limit
		s.records = s.records[:s.limit]
	}

	s.logger.Debug("History loaded",
		zap.Int("records", len(s.records)),
		zap.Int("dropped", dropped))

	if dropped > 0 {
		s.persist()
	}
}

// Add inserts content at the front. An existing record with the same
// content is removed first, so a re-add refreshes both recency and metadata.
// Blank content is ignored and reported with ok=false.
func (s *Store) Add(content string, opts Options) (types.HistoryRecord, bool) {
	if strings.TrimSpace(content) == "" {
		return types.HistoryRecord{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	label := opts.Label
	if label == "" {
		label = content
	}
	label = format.Ellipsize(label, s.labelLength)
	record := types.HistoryRecord{
		ID:          s.newID(),
		Content:     content,
		Label:       label,
		TypeSize:    opts.TypeSize,
		Thumbnail:   opts.Thumbnail,
		DisplayText: opts.DisplayText,
		Created:     s.now(),
	}

	records := make([]types.HistoryRecord, 0, len(s.records)+1)
	records = append(records, record)
	for _, r := range s.records {
		if r.Content != content {
			records = append(records, r)
		}
	}
	if len(records) > s.limit {
		s.logger.Debug("History limit reached, evicting oldest",
			zap.Int("evicted", len(records)-s.limit))
		records = records[:s.limit]
	}
	s.records = records

	s.persist()
	return record, true
}

// Remove deletes the record with the given id. It reports whether a record
// was removed; removing an unknown id is a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, r := range s.records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx >= 0 {
		s.records = append(s.records[:idx:idx], s.records[idx+1:]...)
	}

	s.persist()
	return idx >= 0
}

// Get returns the record with the given id
func (s *Store) Get(id string) (types.HistoryRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return types.HistoryRecord{}, false
}

// Records returns a copy of the records, most recent first
func (s *Store) Records() []types.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.HistoryRecord(nil), s.records...)
}

// Len returns the number of records
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Render projects the current records into a view model
func (s *Store) Render() View {
	return Render(s.Records())
}

// persist writes the records to the slot. Callers hold s.mu.
func (s *Store) persist() {
	if s.slot == nil {
		return
	}
	records := s.records
	if records == nil {
		records = []types.HistoryRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		s.persistErr = cqerrors.NewPersistence("encode history", err)
		s.logger.Error("Failed to encode history", zap.Error(s.persistErr))
		return
	}
	if err := s.slot.Put(s.key, data); err != nil {
		s.persistErr = cqerrors.NewPersistence("write history", err)
		s.logger.Warn("Failed to persist history", zap.Error(s.persistErr))
		return
	}
	s.persistErr = nil
}

// PersistErr returns the last storage failure, or nil when the most recent
// read or write succeeded. Operations never return it.
func (s *Store) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

func isTransient(content string) bool {
	lower := strings.ToLower(content)
	for _, scheme := range transientSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}
