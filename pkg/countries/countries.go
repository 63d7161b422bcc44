// Package countries expone la lista de países para el selector del formulario.
package countries

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Country código ISO-3166 alfa-2 y nombre en el idioma pedido.
type Country struct {
	Code string
	Name string
}

var (
	// supported son los idiomas con nombres de región; el caché solo guarda
	// entradas para estos, sea cual sea el tag pedido.
	supported = display.Supported.Tags()
	matcher   = language.NewMatcher(supported)

	cache sync.Map // language.Tag (de supported) -> []Country
)

// Resolve reduce tag al idioma soportado más cercano. Sin coincidencia = inglés.
func Resolve(tag language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(supported) {
		return language.English
	}
	return supported[idx]
}

// List devuelve los países ordenados por nombre según las reglas de collation del idioma.
// El resultado es una copia: el llamador puede modificarlo.
func List(tag language.Tag) []Country {
	key := Resolve(tag)
	if v, ok := cache.Load(key); ok {
		return append([]Country(nil), v.([]Country)...)
	}

	namer := namerFor(key)
	out := make([]Country, 0, 256)
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			code := string([]rune{a, b})
			r, err := language.ParseRegion(code)
			if err != nil || !r.IsCountry() || r.String() != code {
				continue
			}
			name := namer.Name(r)
			if name == "" {
				continue
			}
			out = append(out, Country{Code: code, Name: name})
		}
	}

	cl := collate.New(key, collate.Loose)
	sort.SliceStable(out, func(i, j int) bool {
		return cl.CompareString(out[i].Name, out[j].Name) < 0
	})

	v, _ := cache.LoadOrStore(key, out)
	return append([]Country(nil), v.([]Country)...)
}

// Parse interpreta un código de idioma ("es", "en-US"); vacío o inválido = inglés.
func Parse(lang string) language.Tag {
	if lang == "" {
		return language.English
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	return tag
}

// Name devuelve el nombre del país code en el idioma tag, o "" si code no es un país.
func Name(tag language.Tag, code string) string {
	r, err := language.ParseRegion(code)
	if err != nil || !r.IsCountry() {
		return ""
	}
	return namerFor(Resolve(tag)).Name(r)
}

func namerFor(tag language.Tag) display.Namer {
	if n := display.Regions(tag); n != nil {
		return n
	}
	return display.Regions(language.English)
}

func cachedLanguages() int {
	n := 0
	cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
