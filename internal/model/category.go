package model

// Category is a named grouping of content.
type Category struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ContentCategory mirrors one row of the content_categories join table.
type ContentCategory struct {
	ContentID  uint64
	CategoryID uint64
}
