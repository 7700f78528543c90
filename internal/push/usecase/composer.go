package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	contentdomain "notify-backend/internal/content/domain"
	"notify-backend/internal/push/domain"
)

const (
	LanguagePrimary   = "en"
	LanguageLocalized = "ar"

	// DataTypeRandomBook tags the push data payload for clients
	DataTypeRandomBook = "random_book"

	maxBodyDescription = 120
)

type messageTemplate struct {
	localized         bool
	title             string
	byline            string
	titlePlaceholder  string
	authorPlaceholder string
}

var templates = map[string]messageTemplate{
	LanguagePrimary: {
		title:             "Recommended for you: %s",
		byline:            "By %s",
		titlePlaceholder:  "A book",
		authorPlaceholder: "Author",
	},
	LanguageLocalized: {
		localized:         true,
		title:             "مقترح لك: %s",
		byline:            "تأليف %s",
		titlePlaceholder:  "كتاب",
		authorPlaceholder: "مؤلف",
	},
}

// Composer renders push messages from fixed per-language templates. It never fails.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// TemplateLanguage maps a user language ("ar", "ar-EG", "EN_us", "") to a template key
func (c *Composer) TemplateLanguage(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	if _, ok := templates[lang]; ok {
		return lang
	}
	return LanguagePrimary
}

func (c *Composer) Compose(language string, content contentdomain.PromotableContent) domain.Message {
	tpl := templates[c.TemplateLanguage(language)]

	title := content.Title.Resolve(tpl.localized, tpl.titlePlaceholder)
	author := content.Author.Resolve(tpl.localized, tpl.authorPlaceholder)
	body := fmt.Sprintf(tpl.byline, author)
	if desc := content.Description.Resolve(tpl.localized, ""); desc != "" {
		body += "\n" + truncate(desc, maxBodyDescription)
	}

	return domain.Message{
		Title:    fmt.Sprintf(tpl.title, title),
		Body:     body,
		ImageURL: content.CoverURL,
		Data:     payload(content),
	}
}

// payload is shared by every language
func payload(content contentdomain.PromotableContent) map[string]string {
	return map[string]string{
		"type":           DataTypeRandomBook,
		"content_id":     content.ID,
		"kind":           string(content.Kind),
		"cover_url":      content.CoverURL,
		"is_featured":    strconv.FormatBool(content.IsFeatured),
		"is_new_release": strconv.FormatBool(content.IsNewRelease),
		"rating":         strconv.FormatFloat(content.Rating, 'f', 1, 64),
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max])) + "…"
}
