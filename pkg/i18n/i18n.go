// Package i18n localizes API messages. Portuguese is the default language of the
// pharmacy front office; English is offered through Accept-Language.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var localeFiles = []string{
	"locales/active.pt-BR.json",
	"locales/active.en.json",
}

type Translator struct {
	bundle *goi18n.Bundle
}

func New(defaultLanguage string) (*Translator, error) {
	tag, err := language.Parse(defaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("parse default language %q: %w", defaultLanguage, err)
	}

	bundle := goi18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, path := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	return &Translator{bundle: bundle}, nil
}

// Localize renders messageID for the given Accept-Language header value.
// Unknown ids come back verbatim.
func (t *Translator) Localize(acceptLanguage, messageID string, data map[string]any) string {
	if t == nil {
		return messageID
	}
	loc := goi18n.NewLocalizer(t.bundle, acceptLanguage)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}
