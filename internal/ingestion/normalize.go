package ingestion

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical labels read by the pipeline.
const (
	LabelIdentifier  = "identificacion"
	LabelName        = "nombre"
	LabelAmount      = "valor"
	LabelDate        = "fecha"
	LabelDescription = "descripcion"
	LabelSalary      = "salario"
	LabelPaidAt      = "fecha_pago"
	LabelEmail       = "email"
)

// CanonicalLabel trims and lower-cases a column label, replaces each run of
// internal whitespace with "_", and folds accented letters to their base
// form, so "  Fecha de  Pago" and "FÉCHA DE PAGO" both become "fecha_de_pago".
func CanonicalLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.Join(strings.Fields(label), "_")
	return foldAccents(label)
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
