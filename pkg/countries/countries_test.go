package countries_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/invoice-editor/pkg/countries"
)

func find(list []countries.Country, code string) (countries.Country, bool) {
	for _, c := range list {
		if c.Code == code {
			return c, true
		}
	}
	return countries.Country{}, false
}

func TestList_IncluyePaisesConocidos(t *testing.T) {
	list := countries.List(language.English)
	require.Greater(t, len(list), 200)

	co, ok := find(list, "CO")
	require.True(t, ok)
	assert.Equal(t, "Colombia", co.Name)

	_, ok = find(list, "ZZ")
	assert.False(t, ok, "ZZ no es un país")
}

func TestList_NombresEnEspañol(t *testing.T) {
	de, ok := find(countries.List(language.Spanish), "DE")
	require.True(t, ok)
	assert.Equal(t, "Alemania", de.Name)
}

func TestList_DevuelveCopia(t *testing.T) {
	a := countries.List(language.English)
	a[0].Name = "mutado"
	b := countries.List(language.English)
	assert.NotEqual(t, "mutado", b[0].Name)
}

func TestList_TagsPrivadosCompartenEntradaDeCache(t *testing.T) {
	countries.List(language.English)
	before := countries.CachedLanguages()

	for i := 0; i < 200; i++ {
		tag := countries.Parse(fmt.Sprintf("en-x-p%05d", i))
		assert.Equal(t, countries.Resolve(language.English), countries.Resolve(tag))
		countries.List(tag)
	}
	assert.Equal(t, before, countries.CachedLanguages())
}

func TestResolve_IdiomaDesconocidoEsIngles(t *testing.T) {
	assert.Equal(t, language.English, countries.Resolve(language.MustParse("tlh")))
	assert.Equal(t, countries.Resolve(language.Spanish), countries.Resolve(language.MustParse("es-x-abc")))
}

func TestParse(t *testing.T) {
	assert.Equal(t, language.English, countries.Parse(""))
	assert.Equal(t, language.English, countries.Parse("###"))
	assert.Equal(t, language.Spanish, countries.Parse("es"))
}

func TestName(t *testing.T) {
	assert.Equal(t, "Colombia", countries.Name(language.English, "CO"))
	assert.Empty(t, countries.Name(language.English, "??"))
}
