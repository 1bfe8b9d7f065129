// Package i18n translates user-facing console messages.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/platformbuilds/mirador-console/internal/widgets"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

//go:embed locales
var localesFS embed.FS

// Message is a single translatable message. ID is the English source text,
// which is also the format used when no translation exists.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile is the layout of locales/<lang>/messages.json.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// SupportedLanguages lists the languages with a bundled message file. The
// first one is the fallback.
var SupportedLanguages = []string{"en", "ru"}

// Bundle holds the message catalog of all supported languages.
type Bundle struct {
	catalog   *catalog.Builder
	matcher   language.Matcher
	supported []language.Tag
	def       language.Tag
	counts    map[string]int
	logger    logger.Logger

	mu       sync.Mutex
	printers map[language.Tag]*message.Printer
}

// New loads the bundled translations. defaultLang is used when a request
// names no supported language; an empty value means English.
func New(defaultLang string, log logger.Logger) (*Bundle, error) {
	if log == nil {
		log = logger.NewNop()
	}
	b := &Bundle{
		catalog:  catalog.NewBuilder(catalog.Fallback(language.English)),
		counts:   make(map[string]int),
		printers: make(map[language.Tag]*message.Printer),
		logger:   log,
	}

	for _, lang := range SupportedLanguages {
		b.supported = append(b.supported, language.MustParse(lang))
	}
	b.matcher = language.NewMatcher(b.supported)

	b.def = language.English
	if defaultLang != "" {
		tag, err := language.Parse(defaultLang)
		if err != nil {
			return nil, fmt.Errorf("invalid default language %q: %w", defaultLang, err)
		}
		b.def = b.match(tag)
	}

	var english map[string]string
	for _, lang := range SupportedLanguages {
		msgs, err := b.load(lang)
		if err != nil {
			return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
		}
		if lang == "en" {
			english = msgs
			continue
		}
		// Keys missing from a translation keep the English text.
		for id, text := range english {
			if _, ok := msgs[id]; !ok {
				_ = b.catalog.SetString(language.MustParse(lang), id, text)
			}
		}
	}

	log.Info("i18n initialized", "languages", SupportedLanguages, "default", b.def.String())
	return b, nil
}

func (b *Bundle) load(lang string) (map[string]string, error) {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file MessageFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	tag := language.MustParse(lang)
	msgs := make(map[string]string, len(file.Messages))
	for _, m := range file.Messages {
		text := m.Translation
		if text == "" {
			text = m.ID
		}
		if err := b.catalog.SetString(tag, m.ID, text); err != nil {
			return nil, fmt.Errorf("message %q: %w", m.ID, err)
		}
		msgs[m.ID] = text
	}
	b.counts[lang] = len(msgs)

	b.logger.Debug("loaded translations", "language", lang, "count", len(msgs))
	return msgs, nil
}

func (b *Bundle) match(tags ...language.Tag) language.Tag {
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(b.supported) {
		return b.def
	}
	return b.supported[idx]
}

// Match picks the best supported language for an Accept-Language header
// value or a bare language code.
func (b *Bundle) Match(accept string) language.Tag {
	if accept == "" {
		return b.def
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(accept)
		if err != nil {
			return b.def
		}
		tags = []language.Tag{tag}
	}
	return b.match(tags...)
}

// Default returns the fallback language.
func (b *Bundle) Default() language.Tag { return b.def }

// Printer returns the cached printer of a supported language.
func (b *Bundle) Printer(tag language.Tag) *message.Printer {
	tag = b.match(tag)

	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.printers[tag]
	if !ok {
		p = message.NewPrinter(tag, message.Catalog(b.catalog))
		b.printers[tag] = p
	}
	return p
}

// T translates key into tag's language, formatting args into it.
// Unknown keys are used as the format itself.
func (b *Bundle) T(tag language.Tag, key string, args ...any) string {
	return b.Printer(tag).Sprintf(key, args...)
}

// Translator adapts the bundle to widget error rendering.
func (b *Bundle) Translator(tag language.Tag) widgets.Translator {
	p := b.Printer(tag)
	return func(format string, args ...any) string {
		return p.Sprintf(format, args...)
	}
}

// TranslationCount returns the number of messages shipped for lang.
func (b *Bundle) TranslationCount(lang string) int {
	return b.counts[lang]
}
