package history

import "github.com/berrythewa/clipqr/internal/types"

const (
	// EmptyPlaceholder is shown instead of an empty list
	EmptyPlaceholder = "No recent items yet"
	// PlaceholderThumbnail stands in for records without a preview image
	PlaceholderThumbnail = "assets/placeholder.svg"
)

// View is the display projection of the history, most recent first.
// When Empty is set Items is nil and Placeholder carries the message.
type View struct {
	Empty       bool       `json:"empty"`
	Placeholder string     `json:"placeholder,omitempty"`
	Items       []ItemView `json:"items,omitempty"`
}

// ItemView is one row of the history panel
type ItemView struct {
	Position  int    `json:"position"`
	ID        string `json:"id"`
	Label     string `json:"label"`
	Content   string `json:"content"`
	TypeSize  string `json:"typeSize,omitempty"`
	Thumbnail string `json:"thumbnail"`
}

// Render projects records into a View without touching them.
func Render(records []types.HistoryRecord) View {
	if len(records) == 0 {
		return View{Empty: true, Placeholder: EmptyPlaceholder}
	}
	items := make([]ItemView, len(records))
	for i, r := range records {
		thumb := r.Thumbnail
		if thumb == "" {
			thumb = PlaceholderThumbnail
		}
		label := r.Label
		if label == "" {
			label = r.Content
		}
		items[i] = ItemView{
			Position:  i,
			ID:        r.ID,
			Label:     label,
			Content:   r.Content,
			TypeSize:  r.TypeSize,
			Thumbnail: thumb,
		}
	}
	return View{Items: items}
}
