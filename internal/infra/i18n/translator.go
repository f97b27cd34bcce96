package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

// Keys used by the support bot.
const (
	KeyStartWelcome   = "start_welcome"
	KeyHistoryEmpty   = "history_empty"
	KeyHistoryHeader  = "history_header"
	KeyHistoryLine    = "history_line"
	KeyRelayConfirmed = "relay_confirmed"
)

var requiredKeys = []string{KeyStartWelcome, KeyHistoryEmpty, KeyHistoryHeader, KeyHistoryLine, KeyRelayConfirmed}

type Translator struct {
	lang         string
	translations map[string]string
}

// NewTranslator loads locales/<langCode>.yaml from fsys.
func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	filePath := path.Join("locales", langCode+".yaml")
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation file %s: %w", filePath, err)
	}
	t, err := newTranslatorFromBytes(data)
	if err != nil {
		return nil, err
	}
	t.lang = langCode
	for _, k := range requiredKeys {
		if _, ok := t.translations[k]; !ok {
			return nil, fmt.Errorf("translation file %s: missing key %q", filePath, k)
		}
	}
	return t, nil
}

func newTranslatorFromBytes(data []byte) (*Translator, error) {
	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation file: %w", err)
	}
	return &Translator{translations: translations}, nil
}

// T formats the text for key, or returns key itself when it is unknown.
func (t *Translator) T(key string, args ...interface{}) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

func (t *Translator) Lang() string { return t.lang }
