package ingestion_test

import (
	"testing"

	"github.com/JaimeStill/tally/internal/ingestion"
)

func TestCanonicalLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fecha", "fecha"},
		{"fecha ", "fecha"},
		{"FECHA", "fecha"},
		{"Fêcha", "fecha"},
		{"  Identificación ", "identificacion"},
		{"Fecha de  Pago", "fecha_de_pago"},
		{"Fecha\tPago", "fecha_pago"},
		{"DESCRIPCIÓN", "descripcion"},
		{"Año", "ano"},
		{"email", "email"},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ingestion.CanonicalLabel(tt.in); got != tt.want {
				t.Errorf("CanonicalLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		missing []string
	}{
		{
			name:    "complete",
			columns: []string{"identificacion", "nombre", "valor", "fecha", "email"},
		},
		{
			name:    "missing amount",
			columns: []string{"identificacion", "nombre", "fecha"},
			missing: []string{"valor"},
		},
		{
			name:    "missing several",
			columns: []string{"nombre"},
			missing: []string{"fecha", "identificacion", "valor"},
		},
		{
			name:    "empty",
			missing: []string{"fecha", "identificacion", "nombre", "valor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ingestion.Validate(&ingestion.Table{Columns: tt.columns})
			if len(tt.missing) == 0 {
				if err != nil {
					t.Fatalf("Validate error: %v", err)
				}
				return
			}

			var mc *ingestion.MissingColumnsError
			if !asMissing(err, &mc) {
				t.Fatalf("Validate error = %v, want *MissingColumnsError", err)
			}
			if len(mc.Missing) != len(tt.missing) {
				t.Fatalf("missing = %v, want %v", mc.Missing, tt.missing)
			}
			for i := range tt.missing {
				if mc.Missing[i] != tt.missing[i] {
					t.Errorf("missing[%d] = %q, want %q", i, mc.Missing[i], tt.missing[i])
				}
			}
		})
	}
}
