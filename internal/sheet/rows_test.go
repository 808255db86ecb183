package sheet

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMapSessionCanonicalRow(t *testing.T) {
	raw := "dia,hora,titulo,bajada\nViernes,5:00 a. m.,Apertura,Bienvenida\n"

	got := MapRows(raw, MapSession)
	want := []Session{{Day: "Viernes", Hour: "5:00 a. m.", Title: "Apertura", Body: "Bienvenida"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("MapRows mismatch (-want +got):\n%s", diff)
	}
}

func TestMapSessionHeaderAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Session
	}{
		{
			"misspelled title column",
			"dia,hora,titutlo\nSábado,10:00 a. m.,Taller\n",
			Session{Day: "Sábado", Hour: "10:00 a. m.", Title: "Taller"},
		},
		{
			"accented day column",
			"día,hora,titulo\nDomingo,9:30 a. m.,Cierre\n",
			Session{Day: "Domingo", Hour: "9:30 a. m.", Title: "Cierre"},
		},
		{
			"case and whitespace insensitive",
			" Dia , HORA ,Titulo\nViernes,8:00 p. m.,Fogón\n",
			Session{Day: "Viernes", Hour: "8:00 p. m.", Title: "Fogón"},
		},
		{
			"missing columns default to empty",
			"titulo\nApertura\n",
			Session{Title: "Apertura"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := MapRows(tt.raw, MapSession)
			if len(rows) != 1 {
				t.Fatalf("MapRows returned %d rows, want 1", len(rows))
			}
			if diff := cmp.Diff(tt.want, rows[0]); diff != "" {
				t.Fatalf("row mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlagCoercion(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"sí", true},
		{"si", true},
		{"SI", true},
		{"true", true},
		{"x", true},
		{"1", true},
		{"", false},
		{"no", false},
		{"false", false},
	}
	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			raw := "nombre,presente\nAna," + tt.value + "\n"
			rows := MapRows(raw, MapParticipant)
			if len(rows) != 1 || rows[0].Present != tt.want {
				t.Fatalf("Present for %q = %v, want %v", tt.value, rows[0].Present, tt.want)
			}
		})
	}
}

func TestParseRecordsMalformedDegradesToZeroRows(t *testing.T) {
	// An unterminated quote is unrecoverable for the reader; the view should
	// see an empty snapshot, not an error.
	raw := "a,b\n\"oops,1\n"
	if rows := MapRows(raw, MapSession); rows != nil {
		t.Fatalf("MapRows = %#v, want nil for malformed payload", rows)
	}
}

func TestParseRecordsHeaderOnly(t *testing.T) {
	if rows := ParseRecords("dia,hora,titulo\n"); rows != nil {
		t.Fatalf("ParseRecords = %#v, want nil for header-only payload", rows)
	}
}

func TestParseRecordsRaggedRows(t *testing.T) {
	// Short rows happen when trailing cells are blank in the sheet export.
	raw := "dia,hora,titulo\nViernes,5:00 a. m.\n"
	rows := MapRows(raw, MapSession)
	if len(rows) != 1 {
		t.Fatalf("MapRows returned %d rows, want 1", len(rows))
	}
	if rows[0].Title != "" {
		t.Fatalf("Title = %q, want empty for missing cell", rows[0].Title)
	}
}
