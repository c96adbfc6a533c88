package ingestion_test

import (
	"errors"
	"testing"
	"time"

	"github.com/JaimeStill/tally/internal/ingestion"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     ingestion.Format
		wantErr  bool
	}{
		{"pagos.xlsx", ingestion.FormatXLSX, false},
		{"PAGOS.XLSM", ingestion.FormatXLSX, false},
		{"plantilla.xltx", ingestion.FormatXLSX, false},
		{"plantilla.xltm", ingestion.FormatXLSX, false},
		{"legacy.xls", ingestion.FormatXLS, false},
		{"export.csv", ingestion.FormatCSV, false},
		{"report.pdf", "", true},
		{"noextension", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := ingestion.DetectFormat(tt.filename)
			if tt.wantErr {
				if !errors.Is(err, ingestion.ErrUnsupportedFormat) {
					t.Errorf("DetectFormat(%q) error = %v, want ErrUnsupportedFormat", tt.filename, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFormat(%q) error: %v", tt.filename, err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDecodeXLSX(t *testing.T) {
	data := workbook(t,
		[]any{"Identificación", " NOMBRE ", "Valor", "Fecha", "Fecha de Pago"},
		[]any{"111", "Ana", 100.5, "2024-01-05", ""},
		[]any{},
		[]any{"222", "Luis", 200, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), "2024-02-11 08:30:00"},
	)

	table, err := ingestion.Decode(data, "pagos.xlsx")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	wantCols := []string{"identificacion", "nombre", "valor", "fecha", "fecha_de_pago"}
	if len(table.Columns) != len(wantCols) {
		t.Fatalf("columns = %v, want %v", table.Columns, wantCols)
	}
	for i, c := range wantCols {
		if table.Columns[i] != c {
			t.Errorf("columns[%d] = %q, want %q", i, table.Columns[i], c)
		}
	}

	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2 (blank row skipped)", len(table.Rows))
	}

	first := table.Rows[0]
	if first["identificacion"] != "111" || first["nombre"] != "Ana" || first["valor"] != "100.5" {
		t.Errorf("first row = %v", first)
	}

	if v, ok := table.Rows[1].Value("fecha"); !ok || v == "" {
		t.Errorf("second row fecha = %q, %v", v, ok)
	}
}

func TestDecodeCSV(t *testing.T) {
	data := []byte("\xEF\xBB\xBFIdentificacion,Nombre,Valor,Fecha\n111,Ana,100.50,2024-01-05\n,,,\n222,Luis,200,2024-02-10\n")

	table, err := ingestion.Decode(data, "export.CSV")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	if table.Columns[0] != "identificacion" {
		t.Errorf("first column = %q, want BOM stripped identificacion", table.Columns[0])
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Rows[1]["nombre"] != "Luis" {
		t.Errorf("second row nombre = %q, want Luis", table.Rows[1]["nombre"])
	}
	if table.Line(0) != 2 || table.Line(1) != 4 {
		t.Errorf("lines = %v, want [2 4]", table.Lines)
	}
}

func TestDecodeCSVSemicolonWindows1252(t *testing.T) {
	// "Identificación" and "Peña" encoded as Windows-1252
	data := []byte("Identificaci\xf3n;Nombre;Valor;Fecha\n111;Pe\xf1a;1.234,50;05/01/2024\n")

	table, err := ingestion.Decode(data, "export.csv")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	if !table.Has("identificacion") {
		t.Errorf("columns = %v, want identificacion", table.Columns)
	}
	if got := table.Rows[0]["nombre"]; got != "Peña" {
		t.Errorf("nombre = %q, want Peña", got)
	}
	if got := table.Rows[0]["valor"]; got != "1.234,50" {
		t.Errorf("valor = %q, want 1.234,50", got)
	}
}

func TestDecodeDuplicateAndBlankHeaders(t *testing.T) {
	data := []byte("Fecha,FECHA,,Valor\n2024-01-05,2023-01-01,x,10\n")

	table, err := ingestion.Decode(data, "dup.csv")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	if len(table.Columns) != 3 {
		t.Fatalf("columns = %v, want 3", table.Columns)
	}
	if table.Columns[1] != "unnamed_2" {
		t.Errorf("blank header = %q, want unnamed_2", table.Columns[1])
	}
	if got := table.Rows[0]["fecha"]; got != "2024-01-05" {
		t.Errorf("fecha = %q, want leftmost column value", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		format   ingestion.Format
	}{
		{"corrupt xlsx", []byte("not a zip container"), "broken.xlsx", ingestion.FormatXLSX},
		{"corrupt xls", []byte("not a compound document"), "broken.xls", ingestion.FormatXLS},
		{"bad csv quoting", []byte("a,b\n\"unterminated,1\n"), "broken.csv", ingestion.FormatCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ingestion.Decode(tt.data, tt.filename)

			var de *ingestion.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Decode error = %v, want *DecodeError", err)
			}
			if de.Format != tt.format {
				t.Errorf("format = %q, want %q", de.Format, tt.format)
			}
			if de.Unwrap() == nil {
				t.Error("DecodeError should carry its cause")
			}
		})
	}
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := ingestion.Decode([]byte("%PDF-1.7"), "scan.pdf")
	if !errors.Is(err, ingestion.ErrUnsupportedFormat) {
		t.Errorf("Decode error = %v, want ErrUnsupportedFormat", err)
	}
}
