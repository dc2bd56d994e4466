package worker

// Recorder receives background processing outcomes.
type Recorder interface {
	PaymentChecked(outcome string)
	EventRelayed(outcome string)
}

const (
	outcomeSettled       = "settled"
	outcomePending       = "pending"
	outcomeNotRegistered = "not_registered"
	outcomeRateLimited   = "rate_limited"
	outcomeError         = "error"

	outcomeSent   = "sent"
	outcomeFailed = "failed"
)

type nopRecorder struct{}

func (nopRecorder) PaymentChecked(string) {}
func (nopRecorder) EventRelayed(string)   {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
