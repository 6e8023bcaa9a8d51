package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupMarket(t *testing.T) {
	tests := []struct {
		code     string
		wantCode string
		wantLang Language
		wantGL   string
	}{
		{"DE", "DE", LangGerman, "de"},
		{" de ", "DE", LangGerman, "de"},
		{"uk", "UK", LangEnglish, "uk"},
		{"FR", "FR", LangFrench, "fr"},
		{"zz", "ZZ", LangEnglish, ""},
		{"", "", LangEnglish, ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			m := LookupMarket(tt.code)
			assert.Equal(t, tt.wantCode, m.Code)
			assert.Equal(t, tt.wantLang, m.Language)
			assert.Equal(t, tt.wantGL, m.GL)
			assert.Equal(t, string(tt.wantLang), m.HL())
		})
	}
}

func TestIsSupportedMarket(t *testing.T) {
	assert.True(t, IsSupportedMarket("at"))
	assert.False(t, IsSupportedMarket("ZZ"))
	assert.False(t, IsSupportedMarket(""))
}

func TestSupportedMarkets_ReturnsCopy(t *testing.T) {
	list := SupportedMarkets()
	list[0].Code = "XX"

	assert.Equal(t, "DE", SupportedMarkets()[0].Code)
}

func TestSupportedMarkets_LanguagesHaveNames(t *testing.T) {
	for _, m := range SupportedMarkets() {
		assert.Contains(t, AllLanguages, m.Language, m.Code)
		assert.NotEmpty(t, m.CountryName, m.Code)
	}
	assert.Equal(t, "German", LangGerman.Name())
	assert.Equal(t, "English", Language("xx").Name())
}
