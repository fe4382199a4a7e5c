package core

// DecisionResult is the outcome of a Decide function.
// Construct it only with IdempotentDecision, SuccessDecision or RejectedDecision.
type DecisionResult struct {
	Outcome string
	Event   DomainEvent // nil unless Outcome is "success"
	Err     error       // nil unless Outcome is "rejected"
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	rejectedOutcome   = "rejected"
)

// IdempotentDecision means the desired state already holds, nothing is appended.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// SuccessDecision carries the event to append.
func SuccessDecision(event DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Event:   event,
	}
}

// RejectedDecision carries a business rule violation. Rejections are not persisted.
func RejectedDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: rejectedOutcome,
		Err:     err,
	}
}

func (r DecisionResult) HasEventToAppend() bool {
	return r.Outcome == successOutcome
}

func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the rejection error, or nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == rejectedOutcome {
		return r.Err
	}

	return nil
}
