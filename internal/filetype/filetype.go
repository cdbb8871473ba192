// Package filetype classifies resource URLs into download categories by extension.
package filetype

import (
	"net/url"
	"path"
	"sort"
	"strings"
)

// Built-in categories.
const (
	PDF        = "pdf"
	Image      = "image"
	Script     = "script"
	Stylesheet = "stylesheet"
	Document   = "document"
	Archive    = "archive"
)

// DefaultExtensions maps each built-in category to its extensions.
func DefaultExtensions() map[string][]string {
	return map[string][]string{
		PDF:        {".pdf"},
		Image:      {".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".ico", ".bmp"},
		Script:     {".js", ".mjs"},
		Stylesheet: {".css"},
		Document:   {".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".odt", ".rtf"},
		Archive:    {".zip", ".tar", ".gz", ".tgz", ".rar", ".7z"},
	}
}

// Classifier maps URL path suffixes to categories.
type Classifier struct {
	byExt map[string]string
}

// NewClassifier builds a Classifier from a category -> extensions map.
// Extensions are matched case-insensitively; a missing leading dot is added.
// When two categories claim the same extension, the lexically first category wins.
func NewClassifier(extensions map[string][]string) *Classifier {
	categories := make([]string, 0, len(extensions))
	for category := range extensions {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	byExt := make(map[string]string)
	for _, category := range categories {
		for _, ext := range extensions[category] {
			ext = normalizeExt(ext)
			if ext == "" {
				continue
			}

			if _, taken := byExt[ext]; taken {
				continue
			}

			byExt[ext] = category
		}
	}

	return &Classifier{byExt: byExt}
}

// Default returns a Classifier over DefaultExtensions.
func Default() *Classifier {
	return NewClassifier(DefaultExtensions())
}

// Classify returns the category of rawURL, or false if its path has no known extension.
func (c *Classifier) Classify(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	ext := strings.ToLower(path.Ext(parsed.Path))
	if ext == "" {
		return "", false
	}

	category, ok := c.byExt[ext]

	return category, ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}

	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return ext
}
