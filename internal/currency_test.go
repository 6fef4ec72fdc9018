package internal

import (
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// resetDetectedLocale resets the global detectedLocale for testing
func resetDetectedLocale() {
	detectedLocale = language.Und
}

func TestGetCurrency_KnownCurrencies(t *testing.T) {
	resetDetectedLocale()
	codes := []string{"SEK", "USD", "EUR", "GBP", "NOK", "DKK", "CHF", "JPY", "CAD", "AUD", "BRL"}

	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			c := GetCurrency(code)
			if c.Code != code {
				t.Errorf("Code = %q, want %q", c.Code, code)
			}
			if got := c.Format(decimal.NewFromInt(1234)); got == "" {
				t.Errorf("Format(1234) is empty")
			}
		})
	}
}

func TestGetCurrency_CaseInsensitive(t *testing.T) {
	resetDetectedLocale()
	for _, code := range []string{"usd", "Usd", "USD", "usD"} {
		if c := GetCurrency(code); c.Code != "USD" {
			t.Errorf("GetCurrency(%q).Code = %q, want USD", code, c.Code)
		}
	}
}

func TestCurrency_Format(t *testing.T) {
	resetDetectedLocale()
	// x/text uses non-breaking space (U+00A0) for Swedish thousand separators
	nbsp := "\u00a0"

	tests := []struct {
		name   string
		code   string
		amount string
		want   string
	}{
		{"USD cents", "USD", "15.99", "$15.99"},
		{"USD whole", "USD", "100", "$100.00"},
		{"USD thousands", "USD", "1234.5", "$1,234.50"},
		{"USD rounds to cents", "USD", "6.666666", "$6.67"},
		{"USD negative", "USD", "-5", "-$5.00"},
		{"GBP", "GBP", "1234", "£1,234.00"},
		{"SEK", "SEK", "1234", "1" + nbsp + "234,00 kr"},
		{"EUR", "EUR", "1234", "1.234,00 €"},
		{"Unknown small", "XYZ", "100", "100.00 XYZ"},
		{"Unknown thousands", "XYZ", "1234", "1,234.00 XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetCurrency(tt.code).Format(decimal.RequireFromString(tt.amount))
			if got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestCurrency_FormatPerMonth(t *testing.T) {
	resetDetectedLocale()
	got := GetCurrency("USD").FormatPerMonth(decimal.RequireFromString("12.5"))
	if got != "$12.50 / mo" {
		t.Errorf("FormatPerMonth(12.5) = %q, want %q", got, "$12.50 / mo")
	}
}

func TestParseCurrencyFromLocale(t *testing.T) {
	tests := []struct {
		locale       string
		wantCurrency string
		wantTag      string
	}{
		{"sv_SE.UTF-8", "SEK", "sv-SE"},
		{"en_US.UTF-8", "USD", "en-US"},
		{"pt_BR.UTF-8", "BRL", "pt-BR"},
		{"de_DE", "EUR", "de-DE"},
		{"de_DE@euro", "EUR", "de-DE"},
		{"ja_JP.UTF-8", "JPY", "ja-JP"},
		{"en_GB.UTF-8", "GBP", "en-GB"},
		{"C", "", ""},
		{"en", "", ""}, // No region
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			gotCurrency, gotTag := parseCurrencyFromLocale(tt.locale)
			if gotCurrency != tt.wantCurrency {
				t.Errorf("currency = %q, want %q", gotCurrency, tt.wantCurrency)
			}
			if tt.wantTag != "" && gotTag.String() != tt.wantTag {
				t.Errorf("tag = %q, want %q", gotTag.String(), tt.wantTag)
			}
		})
	}
}

func TestDetectSystemCurrency_LocaleOverride(t *testing.T) {
	t.Cleanup(resetDetectedLocale)

	tests := []struct {
		locale string
		want   string
	}{
		{"sv_SE.UTF-8", "SEK"},
		{"nb_NO.UTF-8", "NOK"},
		{"en_GB.UTF-8", "GBP"},
		{"ja_JP.UTF-8", "JPY"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			resetDetectedLocale()
			t.Setenv(localeOverrideEnv, tt.locale)
			if got := DetectSystemCurrency(); got != tt.want {
				t.Errorf("DetectSystemCurrency() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSystemCurrency_SetsLocaleForFormatting(t *testing.T) {
	t.Cleanup(resetDetectedLocale)
	resetDetectedLocale()
	t.Setenv(localeOverrideEnv, "pt_BR.UTF-8")

	if got := DetectSystemCurrency(); got != "BRL" {
		t.Fatalf("DetectSystemCurrency() = %q, want BRL", got)
	}

	// Brazilian Portuguese uses period as thousand separator
	if got := GetCurrency("BRL").Format(decimal.NewFromInt(1234)); got != "1.234,00 R$" {
		t.Errorf("Format(1234) = %q, want %q", got, "1.234,00 R$")
	}
}

func TestResolveCurrency(t *testing.T) {
	t.Cleanup(resetDetectedLocale)

	t.Run("configured code wins", func(t *testing.T) {
		resetDetectedLocale()
		t.Setenv(localeOverrideEnv, "sv_SE.UTF-8")
		if got := ResolveCurrency("GBP").Code; got != "GBP" {
			t.Errorf("ResolveCurrency(GBP).Code = %q, want GBP", got)
		}
	})

	t.Run("detected from locale", func(t *testing.T) {
		resetDetectedLocale()
		t.Setenv(localeOverrideEnv, "sv_SE.UTF-8")
		if got := ResolveCurrency("").Code; got != "SEK" {
			t.Errorf("ResolveCurrency(\"\").Code = %q, want SEK", got)
		}
	})
}
