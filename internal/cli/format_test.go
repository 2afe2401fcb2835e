package cli

import (
	"strings"
	"testing"
	"time"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{1234.5, "BRL", "R$1.234,50"},
		{0, "BRL", "R$0,00"},
		{55.9, "BRL", "R$55,90"},
		{1234.5, "USD", "$1,234.50"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount, tt.currency); got != tt.want {
			t.Errorf("FormatMoney(%v, %s) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPercentAndDay(t *testing.T) {
	if got := FormatPercent(20); got != "20%" {
		t.Errorf("FormatPercent(20) = %q", got)
	}
	if got := FormatPercent(12.5); got != "12.5%" {
		t.Errorf("FormatPercent(12.5) = %q", got)
	}
	if got := FormatDay(nil); got != "-" {
		t.Errorf("FormatDay(nil) = %q", got)
	}
	day := 2
	if got := FormatDay(&day); got != "2nd" {
		t.Errorf("FormatDay(2) = %q", got)
	}
}

func TestFormatAgo(t *testing.T) {
	if got := FormatAgo(time.Time{}); got != "never" {
		t.Errorf("FormatAgo(zero) = %q", got)
	}
	if got := FormatAgo(time.Now().Add(-3 * time.Hour)); !strings.Contains(got, "hours ago") {
		t.Errorf("FormatAgo(-3h) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Nubank Ultravioleta", 8); got != "Nubank …" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("Itau", 8); got != "Itau" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestRenderTableAlignment(t *testing.T) {
	out := RenderTable(Table{
		Headers:    []string{"Name", "Amount"},
		Rows:       [][]string{{"Rent", "R$1.500,00"}, {"Gym", "R$99,90"}},
		RightAlign: []int{1},
	})
	if !strings.Contains(out, "Rent") || !strings.Contains(out, "   R$99,90") {
		t.Fatalf("table = %q", out)
	}
}
