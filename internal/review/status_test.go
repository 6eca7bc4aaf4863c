package review

import "testing"

func TestProjectIsTotal(t *testing.T) {
	cases := []struct {
		verified bool
		agree    bool
		want     Status
	}{
		{false, false, StatusUnverified},
		{false, true, StatusUnverified},
		{true, true, StatusAgree},
		{true, false, StatusDisagree},
	}
	for _, tc := range cases {
		if got := Project(tc.verified, tc.agree); got != tc.want {
			t.Fatalf("Project(%v, %v) = %v, want %v", tc.verified, tc.agree, got, tc.want)
		}
	}
}

func TestStatusLabels(t *testing.T) {
	if got := StatusUnverified.String(); got != "Unverified" {
		t.Fatalf("unexpected label: %s", got)
	}
	if got := StatusAgree.String(); got != "Verified-LGTM" {
		t.Fatalf("unexpected label: %s", got)
	}
	if got := StatusDisagree.String(); got != "Verified-DLGTM" {
		t.Fatalf("unexpected label: %s", got)
	}
}

func TestMarkTransitionsLegalFromAnyState(t *testing.T) {
	var v VerificationState
	v.MarkAgree()
	if v.Status() != StatusAgree {
		t.Fatalf("expected agree after MarkAgree, got %v", v.Status())
	}
	v.MarkDisagree()
	if v.Status() != StatusDisagree {
		t.Fatalf("expected disagree after MarkDisagree, got %v", v.Status())
	}
	v.MarkAgree()
	if v.Status() != StatusAgree {
		t.Fatalf("expected agree after flipping back, got %v", v.Status())
	}
}

func TestResetAlwaysProjectsUnverified(t *testing.T) {
	states := []VerificationState{
		{},
		{Verified: true, Agree: true},
		{Verified: true, Agree: false},
		{Verified: false, Agree: true},
	}
	for _, v := range states {
		v.Reset()
		if v.Status() != StatusUnverified {
			t.Fatalf("Reset from %+v projected %v", v, v.Status())
		}
		// Reset is idempotent.
		v.Reset()
		if v.Status() != StatusUnverified {
			t.Fatalf("second Reset projected %v", v.Status())
		}
	}
}
