// Package wizard implements the money-movement flow shared by cash draws and
// voluntary prepayments.
//
// A Session moves linearly through three steps:
//
//	Input --Continue--> Preview --OpenConfirmation--> Preview(confirming) --Confirm--> Result
//
// Continue validates the amount and calls the backend quote endpoint, which is
// safe to repeat. Confirm calls the commit endpoint with the session's
// idempotency key; the key survives failed attempts so a retry is recognized by
// the backend, and it is reset only after a successful commit or when the
// session is closed or reopened. The session never retries on its own.
//
// At most one backend call is outstanding per session: Continue and Confirm
// return ErrBusy without side effects while a call is in flight. Closing the
// session does not cancel an in-flight call; its response is discarded when it
// arrives.
package wizard
