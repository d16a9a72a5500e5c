// Package i18n renders domain errors as user-facing messages.
package i18n

import (
	"bytes"
	stderrors "errors"
	"strings"
	"sync"
	"text/template"

	apperrors "github.com/louisbranch/diceparser/internal/platform/errors"
	i18ncatalog "github.com/louisbranch/diceparser/internal/platform/i18n/catalog"
)

// Catalog maps error codes to message templates for one locale.
type Catalog struct {
	locale   string
	messages map[apperrors.Code]string
}

var (
	catalogsMu sync.RWMutex
	// catalogs caches built and overridden catalogs by locale.
	catalogs = map[string]*Catalog{}
)

// GetCatalog returns the catalog best matching locale, falling back to
// en-US.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}
	if c, ok := lookupCatalog(requested); ok {
		return c
	}

	bundle := i18ncatalog.Default()
	resolved, messages := bundle.NamespaceMessagesWithFallback(bundle.Match(requested), i18ncatalog.NamespaceErrors)
	if c, ok := lookupCatalog(resolved); ok {
		return c
	}

	codes := make(map[apperrors.Code]string, len(messages))
	for key, value := range messages {
		codes[apperrors.Code(key)] = value
	}
	return storeCatalogIfAbsent(resolved, NewCatalog(resolved, codes))
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the template for code with metadata. Unknown codes render
// as the code itself; broken templates render unexecuted.
func (c *Catalog) Format(code apperrors.Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return string(code)
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// Message renders err for a user of locale. Errors that carry no domain code
// render as the UNKNOWN message.
func (c *Catalog) Message(err error) string {
	var domainErr *apperrors.Error
	if !stderrors.As(err, &domainErr) {
		return c.Format(apperrors.CodeUnknown, nil)
	}
	return c.Format(domainErr.Code, domainErr.Metadata)
}

// Localize is shorthand for GetCatalog(locale) followed by Message. It
// returns the locale that was used along with the message.
func Localize(locale string, err error) (string, string) {
	c := GetCatalog(locale)
	return c.Locale(), c.Message(err)
}

// RegisterCatalog installs cat for locale, replacing any cached catalog.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog creates a catalog with a copy of messages.
func NewCatalog(locale string, messages map[apperrors.Code]string) *Catalog {
	cloned := make(map[apperrors.Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{locale: locale, messages: cloned}
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

func storeCatalogIfAbsent(locale string, candidate *Catalog) *Catalog {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	if existing, ok := catalogs[locale]; ok {
		return existing
	}
	catalogs[locale] = candidate
	return candidate
}
