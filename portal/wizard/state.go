package wizard

import (
	"github.com/shopspring/decimal"
)

// Flow names the money-movement feature a session drives.
type Flow string

// Step is the coarse position of a session in the flow.
type Step int

const (
	StepInput Step = iota
	StepPreview
	StepResult
)

func (s Step) String() string {
	switch s {
	case StepInput:
		return "input"
	case StepPreview:
		return "preview"
	case StepResult:
		return "result"
	default:
		return "unknown"
	}
}

// State is the sum of Input, Preview and Result. Each variant carries exactly
// the data valid at that step.
type State interface {
	Step() Step
	isState()
}

// Input is the amount entry step. Amount is the raw user text.
type Input struct {
	Amount string
}

// Preview holds a successful quote for Amount. ConfirmOpen marks the
// disclaimer dialog (the confirming sub-state).
type Preview struct {
	Amount      decimal.Decimal
	RawAmount   string
	Quote       Quote
	ConfirmOpen bool
}

// Result is the terminal step after a successful commit. The quote is dropped
// on entry; only the backend outcome survives.
type Result struct {
	Amount  decimal.Decimal
	Outcome CommitResult
}

func (Input) Step() Step   { return StepInput }
func (Preview) Step() Step { return StepPreview }
func (Result) Step() Step  { return StepResult }

func (Input) isState()   {}
func (Preview) isState() {}
func (Result) isState()  {}

// Snapshot is a serializable view of a session.
type Snapshot struct {
	Flow        Flow          `json:"flow"`
	Step        string        `json:"step"`
	Amount      string        `json:"amount"`
	Quote       *Quote        `json:"quote,omitempty"`
	ConfirmOpen bool          `json:"confirmOpen"`
	Result      *CommitResult `json:"result,omitempty"`
	Busy        bool          `json:"busy"`
	Closed      bool          `json:"closed"`
}

func snapshotOf(flow Flow, state State, busy, closed bool) Snapshot {
	snap := Snapshot{
		Flow:   flow,
		Step:   state.Step().String(),
		Busy:   busy,
		Closed: closed,
	}

	switch st := state.(type) {
	case Input:
		snap.Amount = st.Amount
	case Preview:
		quote := st.Quote
		snap.Amount = st.Amount.String()
		snap.Quote = &quote
		snap.ConfirmOpen = st.ConfirmOpen
	case Result:
		outcome := st.Outcome
		snap.Amount = st.Amount.String()
		snap.Result = &outcome
	}

	return snap
}
