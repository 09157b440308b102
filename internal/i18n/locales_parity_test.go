package i18n

import (
	"encoding/json"
	"io/fs"
	"sort"
	"strings"
	"testing"

	"github.com/terraincognita07/cycletrack/internal/services"
)

func TestLocaleKeysParity(t *testing.T) {
	en := mustLoadLocaleMessages(t, "en")
	ru := mustLoadLocaleMessages(t, "ru")

	missingInRU := missingKeys(en, ru)
	missingInEN := missingKeys(ru, en)

	if len(missingInRU) > 0 {
		t.Errorf("keys missing in ru locale: %s", strings.Join(missingInRU, ", "))
	}
	if len(missingInEN) > 0 {
		t.Errorf("keys missing in en locale: %s", strings.Join(missingInEN, ", "))
	}
}

func TestLocaleFormatVerbsMatch(t *testing.T) {
	en := mustLoadLocaleMessages(t, "en")
	ru := mustLoadLocaleMessages(t, "ru")

	for key, value := range en {
		if strings.Count(value, "%d") != strings.Count(ru[key], "%d") {
			t.Errorf("format verbs differ for %s: %q vs %q", key, value, ru[key])
		}
	}
}

func TestLocalesCoverDayDetails(t *testing.T) {
	en := mustLoadLocaleMessages(t, "en")
	for key, message := range services.DefaultDetailMessages {
		translated, ok := en[key]
		if !ok {
			t.Errorf("detail key %s missing from en locale", key)
			continue
		}
		if translated != message {
			t.Errorf("en locale for %s = %q, detail default is %q", key, translated, message)
		}
	}
}

func mustLoadLocaleMessages(t *testing.T, language string) map[string]string {
	t.Helper()

	content, err := fs.ReadFile(embeddedLocales, "locales/"+language+".json")
	if err != nil {
		t.Fatalf("read locale %q: %v", language, err)
	}

	messages := map[string]string{}
	if err := json.Unmarshal(content, &messages); err != nil {
		t.Fatalf("parse locale %q: %v", language, err)
	}
	if len(messages) == 0 {
		t.Fatalf("locale %q is empty", language)
	}

	return messages
}

func missingKeys(source map[string]string, target map[string]string) []string {
	missing := make([]string, 0)
	for key := range source {
		if _, ok := target[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
