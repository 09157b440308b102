package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

const (
	LangRU = "ru"
	LangEN = "en"
)

var requiredLanguages = []string{LangEN, LangRU}

type catalog map[string]string

// Manager resolves message keys for the supported languages. Catalogs are merged over the
// default language at load time, so a key missing in one language falls back to it.
type Manager struct {
	defaultLanguage string
	catalogs        map[string]catalog
	languages       []string
}

// NewManager loads every <lang>.json file at the root of locales.
func NewManager(defaultLanguage string, locales fs.FS) (*Manager, error) {
	raw, err := loadCatalogs(locales)
	if err != nil {
		return nil, err
	}
	for _, language := range requiredLanguages {
		if _, ok := raw[language]; !ok {
			return nil, fmt.Errorf("required locale %q missing", language)
		}
	}

	manager := &Manager{
		defaultLanguage: LangEN,
		catalogs:        make(map[string]catalog, len(raw)),
		languages:       make([]string, 0, len(raw)),
	}
	for language := range raw {
		manager.languages = append(manager.languages, language)
	}
	sort.Strings(manager.languages)

	if language := baseLanguage(defaultLanguage); raw[language] != nil {
		manager.defaultLanguage = language
	}
	fallback := raw[manager.defaultLanguage]
	for language, messages := range raw {
		merged := make(catalog, len(fallback)+len(messages))
		for _, source := range []catalog{fallback, messages} {
			for key, value := range source {
				if strings.TrimSpace(value) != "" {
					merged[key] = value
				}
			}
		}
		manager.catalogs[language] = merged
	}
	return manager, nil
}

// NewDefaultManager uses the locales compiled into the binary.
func NewDefaultManager(defaultLanguage string) (*Manager, error) {
	locales, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return nil, fmt.Errorf("open embedded locales: %w", err)
	}
	return NewManager(defaultLanguage, locales)
}

func loadCatalogs(locales fs.FS) (map[string]catalog, error) {
	entries, err := fs.ReadDir(locales, ".")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	catalogs := map[string]catalog{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".json" {
			continue
		}
		language := strings.ToLower(strings.TrimSuffix(name, path.Ext(name)))

		content, err := fs.ReadFile(locales, name)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", language, err)
		}
		messages := catalog{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", language, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", language)
		}
		catalogs[language] = messages
	}
	return catalogs, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	return append([]string(nil), manager.languages...)
}

// NormalizeLanguage maps a tag such as "ru-RU" onto a supported language, or the default.
func (manager *Manager) NormalizeLanguage(raw string) string {
	if language := baseLanguage(raw); manager.catalogs[language] != nil {
		return language
	}
	return manager.defaultLanguage
}

// DetectFromAcceptLanguage picks the supported language with the highest q weight. Ties
// keep header order; q=0 excludes a language.
func (manager *Manager) DetectFromAcceptLanguage(header string) string {
	best := ""
	bestWeight := 0.0
	for _, part := range strings.Split(header, ",") {
		tag, weight := parseLanguageRange(part)
		language := baseLanguage(tag)
		if manager.catalogs[language] == nil || weight <= bestWeight {
			continue
		}
		best, bestWeight = language, weight
	}
	if best == "" {
		return manager.defaultLanguage
	}
	return best
}

func (manager *Manager) Translate(language string, key string) string {
	if value, ok := manager.catalogs[manager.NormalizeLanguage(language)][key]; ok {
		return value
	}
	return key
}

func (manager *Manager) Translatef(language string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(language, key), args...)
}

// parseLanguageRange splits "en-US;q=0.7" into its tag and weight. A missing or malformed
// weight counts as 1.
func parseLanguageRange(raw string) (string, float64) {
	tag, params, _ := strings.Cut(strings.TrimSpace(raw), ";")
	weight := 1.0
	for _, param := range strings.Split(params, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || strings.TrimSpace(name) != "q" {
			continue
		}
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && parsed >= 0 && parsed <= 1 {
			weight = parsed
		}
	}
	return strings.TrimSpace(tag), weight
}

func baseLanguage(tag string) string {
	language := strings.ToLower(strings.TrimSpace(tag))
	language, _, _ = strings.Cut(strings.ReplaceAll(language, "_", "-"), "-")
	return language
}
