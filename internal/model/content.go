package model

// Content types accepted by contents.type.
const (
	ContentTypeMovie  = "movie"
	ContentTypeSeries = "series"
)

// Content is a single watchable item.  Nullable columns are pointers so
// they serialize as JSON null.
type Content struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ReleaseYear *int    `json:"release_year"`
	Genre       *string `json:"genre"`
	ImageURL    *string `json:"image_url"`
	VideoURL    *string `json:"video_url"`
	Type        string  `json:"type"`
}

// ContentSummary is the lightweight view embedded in watch history entries.
type ContentSummary struct {
	ID       uint64  `json:"id"`
	Title    string  `json:"title"`
	ImageURL *string `json:"image_url"`
	Type     string  `json:"type"`
}
