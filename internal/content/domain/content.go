package domain

import "time"

// Kind tags the content family a promotion refers to
type Kind string

const KindBook Kind = "book"

// Book is the row shape of the external books table. Author columns hold
// either raw text or a JSON-encoded array of names.
type Book struct {
	ID                   string `gorm:"primaryKey"`
	Title                string `gorm:"not null"`
	TitleLocalized       string
	Description          string
	DescriptionLocalized string
	Author               string
	AuthorLocalized      string
	CoverURL             string
	IsFeatured           bool    `gorm:"index;default:false"`
	IsNewRelease         bool    `gorm:"index;default:false"`
	Rating               float64 `gorm:"index;default:0"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PromotableContent is the normalised, read-only snapshot handed to the composer
type PromotableContent struct {
	ID           string        `json:"id"`
	Kind         Kind          `json:"kind"`
	Title        LocalizedText `json:"title"`
	Description  LocalizedText `json:"description"`
	Author       LocalizedText `json:"author"`
	CoverURL     string        `json:"cover_url"`
	IsFeatured   bool          `json:"is_featured"`
	IsNewRelease bool          `json:"is_new_release"`
	Rating       float64       `json:"rating"`
}

// FromBook normalises a books row at the store boundary
func FromBook(b Book) PromotableContent {
	return PromotableContent{
		ID:           b.ID,
		Kind:         KindBook,
		Title:        NewLocalizedText(b.Title, b.TitleLocalized),
		Description:  NewLocalizedText(b.Description, b.DescriptionLocalized),
		Author:       NewLocalizedText(b.Author, b.AuthorLocalized),
		CoverURL:     b.CoverURL,
		IsFeatured:   b.IsFeatured,
		IsNewRelease: b.IsNewRelease,
		Rating:       b.Rating,
	}
}
