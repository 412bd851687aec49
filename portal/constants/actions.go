package constant

// Action types namespace idempotency keys; one manager exists per action type.
const (
	// ActionDrawCreate tags the cash draw commit (`draw-create-<token>`).
	ActionDrawCreate = "draw-create"
	// ActionPrepaymentCreate tags the voluntary prepayment commit (`prepayment-create-<token>`).
	ActionPrepaymentCreate = "prepayment-create"
)

// Flow names as they appear in gateway routes.
const (
	FlowDraw       = "draw"
	FlowPrepayment = "prepayment"
)
