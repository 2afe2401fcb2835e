package cmd

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/theirongolddev/budgetwiz/internal/api"
	"github.com/theirongolddev/budgetwiz/internal/config"
	"github.com/theirongolddev/budgetwiz/internal/tui"
	"github.com/theirongolddev/budgetwiz/internal/wizard"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(config.LogConfig{Level: "info", Format: "json"}, &buf).Info("hello", "n", 1)
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("json output = %q", buf.String())
	}

	buf.Reset()
	newLogger(config.LogConfig{Level: "warn"}, &buf).Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Wizard.SavingsTargetPct = 0
	cfg.Wizard.InvestmentTargetPct = 15
	cfg.Wizard.FallbackCardOrder = []string{"income"}

	opts := (&env{cfg: cfg}).options()
	def := wizard.DefaultOptions()
	if opts.SavingsTargetPct != def.SavingsTargetPct {
		t.Errorf("savings = %v, want default %v", opts.SavingsTargetPct, def.SavingsTargetPct)
	}
	if opts.InvestmentTargetPct != 15 || len(opts.FallbackCardOrder) != 1 {
		t.Errorf("options = %+v", opts)
	}
}

func TestProfileChoicesSkipsCurrent(t *testing.T) {
	got := profileChoices([]api.Profile{{ID: 1, Name: "Casa"}, {ID: 2, Name: "Loja"}}, 1)
	if len(got) != 1 || got[0].ID != 2 || got[0].Name != "Loja" {
		t.Fatalf("choices = %+v", got)
	}
}

func TestCardProfilesPutsCurrentFirst(t *testing.T) {
	current := tui.ProfileChoice{ID: 2, Name: "Loja"}
	got := cardProfiles([]api.Profile{{ID: 1, Name: "Casa"}, {ID: 2, Name: "Loja"}, {ID: 3}}, current)
	if len(got) != 3 || got[0] != current || got[1].ID != 1 || got[2].Name != "profile #3" {
		t.Fatalf("profiles = %+v", got)
	}
	if got := cardProfiles(nil, current); len(got) != 1 {
		t.Fatalf("profiles without a list = %+v", got)
	}
}

func TestSummaryPairs(t *testing.T) {
	p := wizard.SubmissionPayload{
		RecurringTemplates: []wizard.PayloadRecurring{
			{Name: "Rent", Type: wizard.TypeFixed, Amount: 1500},
			{Name: "Salary", Type: wizard.TypeIncome, Amount: 8000},
		},
		ResetMode: true,
	}
	pairs := summaryPairs(api.Profile{ID: 3, Name: "Casa"}, p)
	got := map[string]string{}
	for _, kv := range pairs {
		got[kv[0]] = kv[1]
	}
	if got["Profile"] != "Casa (#3)" || got["Mode"] != "reset" {
		t.Fatalf("pairs = %v", got)
	}
	if !strings.Contains(got["Recurring"], "2 items") || !strings.Contains(got["Recurring"], "1.500,00") {
		t.Fatalf("recurring = %q", got["Recurring"])
	}
}

func TestMaskToken(t *testing.T) {
	if got := maskToken("abcdefghijklmnopqrst"); got != "abcdefgh...qrst" {
		t.Fatalf("maskToken = %q", got)
	}
	if got := maskToken("abc"); got != "****" {
		t.Fatalf("maskToken short = %q", got)
	}
}
