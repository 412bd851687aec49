package constant

// Localization keys for notifications raised by the wizard. The localizer
// resolves them; the state machine never inspects the resolved text.
const (
	MessageInvalidAmount      = "wizard.amount.invalid"
	MessageQuoteFailed        = "wizard.quote.failed"
	MessageCommitDuplicate    = "wizard.commit.duplicate"
	MessageCommitFailed       = "wizard.commit.failed"
	MessageDrawCreated        = "wizard.draw.created"
	MessagePrepaymentCreated  = "wizard.prepayment.created"
	MessageServiceUnavailable = "backend.unavailable"
)
