package finding

import (
	"encoding/json"
	"testing"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    Severity
		wantErr bool
	}{
		{"critical", SeverityCritical, false},
		{"high", SeverityHigh, false},
		{"medium", SeverityMedium, false},
		{"low", SeverityLow, false},
		{"info", SeverityInfo, false},
		{"HIGH", SeverityHigh, false},
		{"  Critical  ", SeverityCritical, false},
		{"", SeverityMedium, true},
		{"severe", SeverityMedium, true},
		{"warning", SeverityMedium, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSeverity(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSeverity(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeverity(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSeverity(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	ordered := []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		if !(ordered[i] > ordered[i-1]) {
			t.Errorf("expected %v > %v", ordered[i], ordered[i-1])
		}
	}

	if !SeverityCritical.AtLeast(SeverityHigh) {
		t.Error("critical should be at least high")
	}
	if !SeverityHigh.AtLeast(SeverityHigh) {
		t.Error("high should be at least high")
	}
	if SeverityMedium.AtLeast(SeverityHigh) {
		t.Error("medium should not be at least high")
	}
}

func TestSeverityJSONRoundtrip(t *testing.T) {
	for _, sev := range []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		data, err := json.Marshal(sev)
		if err != nil {
			t.Fatalf("marshal %v: %v", sev, err)
		}
		if string(data) != `"`+sev.String()+`"` {
			t.Errorf("marshal %v = %s, want quoted name", sev, data)
		}

		var got Severity
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if got != sev {
			t.Errorf("roundtrip %v = %v", sev, got)
		}
	}
}

func TestFindingValidate(t *testing.T) {
	valid := Finding{
		Severity: SeverityHigh,
		Rule:     "hardcoded-secret",
		Message:  "Credential appears to be hardcoded",
		File:     "src/auth.ts",
		Line:     3,
		Tool:     "pattern:security",
		Category: "security",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid finding rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(f *Finding)
	}{
		{"missing rule", func(f *Finding) { f.Rule = "" }},
		{"missing message", func(f *Finding) { f.Message = "" }},
		{"missing file", func(f *Finding) { f.File = "" }},
		{"missing tool", func(f *Finding) { f.Tool = "" }},
		{"invalid severity", func(f *Finding) { f.Severity = Severity(42) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			if err := f.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}
