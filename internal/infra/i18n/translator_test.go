//go:build !integration

package i18n

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestTranslator(t *testing.T) {
	translator, err := newTranslatorFromBytes([]byte("greeting: hello\nwelcome_user: hello %s"))
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		if got := translator.T("greeting"); got != "hello" {
			t.Errorf("wanted 'hello', got '%s'", got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		if got := translator.T("nonexistent_key"); got != "nonexistent_key" {
			t.Errorf("wanted key back, got '%s'", got)
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		if got := translator.T("welcome_user", "Ali"); got != "hello Ali" {
			t.Errorf("wanted 'hello Ali', got '%s'", got)
		}
	})
}

func TestNewTranslator_EmbeddedLocales(t *testing.T) {
	for _, lang := range []string{"ru", "en"} {
		t.Run(lang, func(t *testing.T) {
			tr, err := NewTranslator(LocalesFS, lang)
			if err != nil {
				t.Fatalf("NewTranslator(%s): %v", lang, err)
			}
			if tr.Lang() != lang {
				t.Errorf("Lang() = %s", tr.Lang())
			}
			if got := tr.T(KeyRelayConfirmed, "hello"); !strings.Contains(got, `"hello"`) {
				t.Errorf("confirmation must echo the text, got %q", got)
			}
			if got := tr.T(KeyHistoryLine, "👤", "12:30", "hi"); got != "👤 <b>12:30</b>: hi\n" {
				t.Errorf("history line = %q", got)
			}
		})
	}
}

func TestNewTranslator_MissingKeyFails(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/xx.yaml": &fstest.MapFile{Data: []byte("start_welcome: hi\n")},
	}
	if _, err := NewTranslator(fsys, "xx"); err == nil {
		t.Fatal("expected error for incomplete locale")
	}
}

func TestNewTranslator_UnknownLanguage(t *testing.T) {
	if _, err := NewTranslator(LocalesFS, "zz"); err == nil {
		t.Fatal("expected error for unknown language")
	}
}
