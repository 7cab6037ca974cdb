package scheduling

// RejectionCode identifies why a proposal was refused.
type RejectionCode string

const (
	RejectInvalidTimeRange    RejectionCode = "INVALID_TIME_RANGE"
	RejectOutsideAvailability RejectionCode = "OUTSIDE_AVAILABILITY"
	RejectCollision           RejectionCode = "COLLISION"
	RejectPlanExists          RejectionCode = "PLAN_EXISTS"
	RejectNoAvailability      RejectionCode = "NO_AVAILABILITY"
	RejectNoSubjects          RejectionCode = "NO_SUBJECTS"
	RejectNotDeletable        RejectionCode = "NOT_DELETABLE"
)

var rejectionReasons = map[RejectionCode]string{
	RejectInvalidTimeRange:    "invalid time range",
	RejectOutsideAvailability: "outside availability",
	RejectCollision:           "collision",
	RejectPlanExists:          "plan already exists for upcoming week",
	RejectNoAvailability:      "no availability data",
	RejectNoSubjects:          "no subjects available",
	RejectNotDeletable:        "session cannot be deleted",
}

// Rejection is a business-rule refusal with a user-presentable reason.
type Rejection struct {
	Code   RejectionCode `json:"code"`
	Reason string        `json:"reason"`
}

// Error lets a Rejection travel through error returns.
func (r *Rejection) Error() string {
	if r == nil {
		return "<nil>"
	}
	return r.Reason
}

// Reject builds the rejection registered for code.
func Reject(code RejectionCode) *Rejection {
	return &Rejection{Code: code, Reason: rejectionReasons[code]}
}
