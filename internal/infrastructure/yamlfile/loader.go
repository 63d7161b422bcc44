// Package yamlfile carga plantillas y snapshots de factura desde disco.
// Acepta YAML o JSON (JSON es YAML válido).
package yamlfile

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/invoice-editor/internal/domain/entity"
)

// Snapshot entrada completa de renderizado: factura + ajustes.
type Snapshot struct {
	Invoice  entity.Invoice    `yaml:"invoice"`
	Tax      entity.Adjustment `yaml:"tax"`
	Discount entity.Adjustment `yaml:"discount"`
}

// LoadTemplate lee path y lo superpone a base: las claves presentes sustituyen a
// las de base, las ausentes se conservan.
func LoadTemplate(path string, base entity.Invoice) (entity.Invoice, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return entity.Invoice{}, fmt.Errorf("yamlfile: leer plantilla %s: %w", path, err)
	}
	out := base.Clone()
	if err := decode(raw, &out); err != nil {
		return entity.Invoice{}, fmt.Errorf("yamlfile: plantilla %s: %w", path, err)
	}
	return out, nil
}

// LoadSnapshot lee un snapshot {invoice, tax, discount}; la factura se superpone a base.
func LoadSnapshot(path string, base entity.Invoice) (Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("yamlfile: leer snapshot %s: %w", path, err)
	}
	out := Snapshot{Invoice: base.Clone()}
	if err := decode(raw, &out); err != nil {
		return Snapshot{}, fmt.Errorf("yamlfile: snapshot %s: %w", path, err)
	}
	return out, nil
}

// Marshal serializa v como YAML con sangría de dos espacios.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(raw []byte, into any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(into)
}
