package importer

import "testing"

func TestNormalizeCedula(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"nine digits gets leading zero", "123456789", "0123456789"},
		{"ten digits unchanged", "1712345678", "1712345678"},
		{"strips separators", "171234-5678", "1712345678"},
		{"nine digits with spaces", " 123 456 789 ", "0123456789"},
		{"too short passes through", "12345", "12345"},
		{"too long passes through", "17123456789", "17123456789"},
		{"empty", "", ""},
		{"letters dropped", "V1712345678", "1712345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCedula(tt.in); got != tt.want {
				t.Errorf("NormalizeCedula(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCedulaIdempotent(t *testing.T) {
	once := NormalizeCedula("123456789")
	twice := NormalizeCedula(once)
	if once != twice {
		t.Errorf("not idempotent: %q then %q", once, twice)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"day first slash", "15/03/2024", "2024-03-15", false},
		{"day first dash", "15-03-2024", "2024-03-15", false},
		{"year first", "2024-03-15", "2024-03-15", false},
		{"year first slash", "2024/03/15", "2024-03-15", false},
		{"single digit parts", "5/3/2024", "2024-03-05", false},
		{"month out of range", "15/13/2024", "", true},
		{"day out of range", "32/03/2024", "", true},
		{"two parts", "03/2024", "", true},
		{"garbage", "not a date", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"plain", "450.50", 450.50},
		{"comma decimal", "450,50", 450.50},
		{"dollar sign", "$1200.00", 1200},
		{"thousand dot comma decimal", "1.234,56", 1234.56},
		{"thousand comma dot decimal", "1,234.56", 1234.56},
		{"grouping commas only", "1,234,567", 1234567},
		{"negative", "-15.25", -15.25},
		{"blank", "", 0},
		{"dash placeholder", "-", 0},
		{"garbage", "n/a", 0},
		{"integer", "800", 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAmount(tt.in); got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cédula", "CEDULA"},
		{"  No. Cédula ", "NOCEDULA"},
		{"apellidos y nombres", "APELLIDOSYNOMBRES"},
		{"AÑO", "ANO"},
		{"Sueldo Base", "SUELDOBASE"},
	}

	for _, tt := range tests {
		if got := NormalizeHeader(tt.in); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripAccents(t *testing.T) {
	if got := StripAccents("Cédula Año Marcación"); got != "Cedula Ano Marcacion" {
		t.Errorf("StripAccents = %q", got)
	}
}
