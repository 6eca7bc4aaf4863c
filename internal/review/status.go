// internal/review/status.go
//
// Every reviewable section of a guideline carries two persisted flags:
// "has someone looked at this" (verified) and "did they agree with it"
// (lgtm). The pair collapses into a single tri-state Status so the rest
// of the code never branches on raw booleans.

package review

// Status is the projection of a field's verification flags.
type Status int

const (
	// StatusUnverified means nobody has signed off on the field yet.
	StatusUnverified Status = iota
	// StatusAgree is Verified-LGTM: reviewed and accepted.
	StatusAgree
	// StatusDisagree is Verified-DLGTM: reviewed and rejected.
	StatusDisagree
)

// String returns the reviewer-facing label for the status.
func (s Status) String() string {
	switch s {
	case StatusAgree:
		return "Verified-LGTM"
	case StatusDisagree:
		return "Verified-DLGTM"
	default:
		return "Unverified"
	}
}

// Project collapses the stored flag pair into a Status. The agree flag
// is meaningless while verified is false; an unverified field projects
// to StatusUnverified no matter what agree holds.
func Project(verified, agree bool) Status {
	if !verified {
		return StatusUnverified
	}
	if agree {
		return StatusAgree
	}
	return StatusDisagree
}

// VerificationState is the persisted flag pair behind one field.
type VerificationState struct {
	Verified bool
	Agree    bool
}

// Status projects the stored flags.
func (v VerificationState) Status() Status {
	return Project(v.Verified, v.Agree)
}

// MarkAgree records a Verified-LGTM judgment. Legal from any state.
func (v *VerificationState) MarkAgree() {
	v.Verified = true
	v.Agree = true
}

// MarkDisagree records a Verified-DLGTM judgment. Legal from any state.
func (v *VerificationState) MarkDisagree() {
	v.Verified = true
	v.Agree = false
}

// Reset clears the verification entirely. The UI only offers this while
// the field is verified, but the operation itself is total and
// idempotent.
func (v *VerificationState) Reset() {
	v.Verified = false
	v.Agree = false
}
