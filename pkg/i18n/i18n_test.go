package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalize_DefaultsToPortuguese(t *testing.T) {
	tr, err := New("pt-BR")
	require.NoError(t, err)

	assert.Equal(t, "O carrinho está vazio.", tr.Localize("", MsgEmptyCart, nil))
	assert.Equal(t,
		"Estoque insuficiente para: Dipirona. Restam: 2",
		tr.Localize("", MsgSaleInsufficientStock, map[string]any{"ProductName": "Dipirona", "Available": 2}),
	)
}

func TestLocalize_AcceptLanguage(t *testing.T) {
	tr, err := New("pt-BR")
	require.NoError(t, err)

	assert.Equal(t, "The cart is empty.", tr.Localize("en-US,en;q=0.9", MsgEmptyCart, nil))
	assert.Equal(t, "O carrinho está vazio.", tr.Localize("de-DE", MsgEmptyCart, nil))
}

func TestLocalize_UnknownMessage(t *testing.T) {
	tr, err := New("pt-BR")
	require.NoError(t, err)

	assert.Equal(t, "NoSuchMessage", tr.Localize("en", "NoSuchMessage", nil))

	var nilTr *Translator
	assert.Equal(t, MsgEmptyCart, nilTr.Localize("en", MsgEmptyCart, nil))
}

func TestLocaleFiles_HaveSameKeys(t *testing.T) {
	keys := func(path string) map[string]bool {
		raw, err := localeFS.ReadFile(path)
		require.NoError(t, err)
		var m map[string]string
		require.NoError(t, json.Unmarshal(raw, &m))
		out := make(map[string]bool, len(m))
		for k := range m {
			out[k] = true
		}
		return out
	}

	assert.Equal(t, keys(localeFiles[0]), keys(localeFiles[1]))
}

func TestNew_InvalidLanguage(t *testing.T) {
	_, err := New("??")
	assert.Error(t, err)
}
