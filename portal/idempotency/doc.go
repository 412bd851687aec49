// Package idempotency issues retry-stable keys for money-moving commits and
// recognizes backend rejections caused by duplicate submissions.
//
// One Manager exists per logical action type and is owned by the wizard
// session that uses it. As long as Reset is not called between attempts, every
// retry of the same commit carries the identical key, letting the backend
// deduplicate double clicks and retries after a timeout.
//
//	keys, _ := idempotency.NewManager(constant.ActionDrawCreate)
//	req.Header.Set(constant.IdempotenceKey, keys.Key()) // draw-create-<token>
//
// Keys are not coordinated across managers: two sessions (two browser tabs)
// hold independent tokens.
package idempotency
