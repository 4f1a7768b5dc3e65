package analysis

import (
	"strings"
	"testing"

	"github.com/medverify/credscan/constants"
)

func TestExtractStateCodeAllStates(t *testing.T) {
	a := newTestAnalyzer()
	for _, s := range constants.USStates {
		// lowercase mention, away from the header lines
		text := "Certificate of Registration\n\nIssued in " + strings.ToLower(s.Name) + " to the holder."
		got := a.extractStateCode(a.parse(text))
		if got.Value != s.Code || got.Confidence != 1.0 {
			t.Errorf("state %q: got (%q, %v), want (%q, 1.0)", s.Name, got.Value, got.Confidence, s.Code)
		}
	}
}

func TestExtractStateCode(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     string
		wantConf float32
	}{
		{
			name:     "authority header",
			text:     "Medical Board of Ohio\nCertificate of Licensure",
			want:     "OH",
			wantConf: 1.0,
		},
		{
			name:     "department of health header",
			text:     "Department of Health of New Hampshire\nVerification",
			want:     "NH",
			wantConf: 1.0,
		},
		{
			name:     "earliest mention wins",
			text:     "Texas reciprocity with Alabama is recognized.",
			want:     "TX",
			wantConf: 1.0,
		},
		{
			name:     "address line",
			text:     "Certificate\n100 MAIN ST\nSPRINGFIELD, IL 62704",
			want:     "IL",
			wantConf: 0.95,
		},
		{
			name:     "invalid address code ignored",
			text:     "MAILSTOP, XX 12345",
			want:     UnknownState,
			wantConf: 0,
		},
		{
			name:     "no partial-word match",
			text:     "The Iowan delegation attended.",
			want:     UnknownState,
			wantConf: 0,
		},
		{
			name:     "nothing found",
			text:     "Certificate of completion.",
			want:     UnknownState,
			wantConf: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer()
			got := a.extractStateCode(a.parse(tt.text))
			if got.Value != tt.want || got.Confidence != tt.wantConf {
				t.Errorf("extractStateCode() = (%q, %v), want (%q, %v)",
					got.Value, got.Confidence, tt.want, tt.wantConf)
			}
		})
	}
}
