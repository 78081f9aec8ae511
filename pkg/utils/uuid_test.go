package utils

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestNewRecordID(t *testing.T) {
	uuidPattern := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	ids := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewRecordID()

		if !uuidPattern.MatchString(id) {
			t.Errorf("Record ID is not a UUIDv7: %s", id)
		}
		if ids[id] {
			t.Errorf("Duplicate record ID generated: %s", id)
		}
		ids[id] = true
	}
}

func TestNewRecordIDSortsByTime(t *testing.T) {
	first := NewRecordID()
	time.Sleep(2 * time.Millisecond)
	second := NewRecordID()

	if strings.Compare(first, second) >= 0 {
		t.Errorf("Expected %s to sort before %s", first, second)
	}
}

func TestFallbackID(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	id := fallbackID(now)

	if !strings.HasPrefix(id, "0000018bcfe56800-") {
		t.Errorf("Fallback ID missing time prefix: %s", id)
	}
	if id == fallbackID(now) {
		t.Errorf("Fallback IDs should differ for the same instant: %s", id)
	}
}
