package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/amount"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/client"
	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/idempotency"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
	libHTTP "github.com/sayjeyhi/loc-mp-v2-sub000/portal/net/http"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/notify"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/opentelemetry/metrics"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/wizard"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// WizardResponse is the body of every wizard route.
type WizardResponse struct {
	ID            string                 `json:"id"`
	State         wizard.Snapshot        `json:"state"`
	Busy          bool                   `json:"busy"`
	Display       *Display               `json:"display,omitempty"`
	Notifications []notify.Notification  `json:"notifications"`
	Error         *libHTTP.ErrorResponse `json:"error,omitempty"`
}

// Display holds the session figures formatted for the session's locale. Fees
// and Total are only known while a quote is held.
type Display struct {
	Amount string `json:"amount"`
	Fees   string `json:"fees,omitempty"`
	Total  string `json:"total,omitempty"`
}

// AmountRequest is the body of PUT .../amount.
type AmountRequest struct {
	Amount string `json:"amount"`
}

func (g *Gateway) openWizard(c *fiber.Ctx) error {
	flow := wizard.Flow(c.Params("flow"))

	backend, ok := g.backends[flow]
	if !ok {
		return libHTTP.RespondError(c, http.StatusNotFound, "unknown_flow", "Unknown wizard flow")
	}

	action, err := actionType(flow)
	if err != nil {
		return libHTTP.RespondError(c, http.StatusNotFound, "unknown_flow", "Unknown wizard flow")
	}

	keys, err := idempotency.NewManager(action, g.keyOptions...)
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()
	logger := g.logger.With(log.SessionID(sessionID))
	recorder := &notify.Recorder{}

	acceptLanguage := c.Get(constant.HeaderAcceptLanguage)
	if acceptLanguage == "" {
		acceptLanguage = g.defaultLocale.String()
	}

	localizer := g.catalog.For(acceptLanguage)

	notifier := notify.Multi(
		notify.LogNotifier{Logger: logger},
		notify.Localizing(localizer, recorder),
	)

	session, err := wizard.NewSession(flow, backend, keys,
		wizard.WithClassifier(g.classifier),
		wizard.WithNotifier(notifier),
		wizard.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	e := g.sessions.add(&entry{
		id:       sessionID,
		owner:    requestOwner(c),
		session:  session,
		recorder: recorder,
		locale:   localizer.Language(),
	})

	logger.Log(c.UserContext(), log.LevelDebug, "wizard opened", log.Flow(flow))

	return libHTTP.Created(c, g.respond(e, true))
}

func (g *Gateway) getWizard(c *fiber.Ctx) error {
	return g.withSession(c, func(_ context.Context, _ *wizard.Session) error { return nil })
}

func (g *Gateway) closeWizard(c *fiber.Ctx) error {
	if err := g.sessions.remove(wizard.Flow(c.Params("flow")), c.Params("id"), requestOwner(c)); err != nil {
		return g.respondError(c, nil, err)
	}

	return libHTTP.NoContent(c)
}

func (g *Gateway) setAmount(c *fiber.Ctx) error {
	var body AmountRequest
	if err := c.BodyParser(&body); err != nil {
		return libHTTP.RespondError(c, http.StatusBadRequest, "invalid_body", "Request body must be a JSON object with an amount")
	}

	return g.withSession(c, func(_ context.Context, s *wizard.Session) error {
		return s.SetAmount(body.Amount)
	})
}

func (g *Gateway) continueWizard(c *fiber.Ctx) error {
	return g.withSession(c, func(ctx context.Context, s *wizard.Session) error {
		err := s.Continue(ctx)

		var quoteErr *wizard.QuoteError

		switch {
		case err == nil:
			g.record(ctx, g.metrics.RecordWizardQuote, s.Flow(), metrics.OutcomeSuccess)
		case errors.As(err, &quoteErr):
			g.record(ctx, g.metrics.RecordWizardQuote, s.Flow(), metrics.OutcomeFailure)
		}

		return err
	})
}

func (g *Gateway) openConfirmation(c *fiber.Ctx) error {
	return g.withSession(c, func(_ context.Context, s *wizard.Session) error {
		return s.OpenConfirmation()
	})
}

func (g *Gateway) cancelConfirmation(c *fiber.Ctx) error {
	return g.withSession(c, func(_ context.Context, s *wizard.Session) error {
		return s.CancelConfirmation()
	})
}

func (g *Gateway) confirm(c *fiber.Ctx) error {
	return g.withSession(c, func(ctx context.Context, s *wizard.Session) error {
		err := s.Confirm(ctx)

		var (
			dupErr    *wizard.CommitDuplicateError
			commitErr *wizard.CommitError
		)

		switch {
		case err == nil:
			g.record(ctx, g.metrics.RecordWizardCommit, s.Flow(), metrics.OutcomeSuccess)
		case errors.As(err, &dupErr):
			g.record(ctx, g.metrics.RecordWizardCommit, s.Flow(), metrics.OutcomeDuplicate)
		case errors.As(err, &commitErr):
			g.record(ctx, g.metrics.RecordWizardCommit, s.Flow(), metrics.OutcomeFailure)
		}

		return err
	})
}

func (g *Gateway) withSession(c *fiber.Ctx, action func(ctx context.Context, s *wizard.Session) error) error {
	e, err := g.sessions.get(wizard.Flow(c.Params("flow")), c.Params("id"), requestOwner(c))
	if err != nil {
		return g.respondError(c, nil, err)
	}

	if err := action(c.UserContext(), e.session); err != nil {
		return g.respondError(c, e, err)
	}

	return libHTTP.OK(c, g.respond(e, true))
}

func requestOwner(c *fiber.Ctx) string {
	return ownerOf(client.TokenFromContext(c.UserContext()))
}

func (g *Gateway) respond(e *entry, drain bool) WizardResponse {
	snap := e.session.Snapshot()

	resp := WizardResponse{
		ID:            e.id,
		State:         snap,
		Busy:          snap.Busy,
		Display:       g.display(e.locale, snap),
		Notifications: []notify.Notification{},
	}

	if drain {
		if pending := e.recorder.Drain(); len(pending) > 0 {
			resp.Notifications = pending
		}
	}

	return resp
}

func (g *Gateway) display(locale language.Tag, snap wizard.Snapshot) *Display {
	switch {
	case snap.Quote != nil:
		value, err := decimal.NewFromString(snap.Amount)
		if err != nil {
			value = snap.Quote.Amount
		}

		return &Display{
			Amount: amount.Format(value, g.currency, locale),
			Fees:   amount.Format(snap.Quote.Fees, g.currency, locale),
			Total:  amount.Format(snap.Quote.Total, g.currency, locale),
		}
	case snap.Result != nil:
		value := snap.Result.Amount
		if value.IsZero() {
			value, _ = decimal.NewFromString(snap.Amount)
		}

		return &Display{Amount: amount.Format(value, g.currency, locale)}
	default:
		return nil
	}
}

// respondError maps a wizard error to its status. e is nil when no session
// could be resolved.
func (g *Gateway) respondError(c *fiber.Ctx, e *entry, err error) error {
	status, title := statusOf(err)

	body := libHTTP.ErrorResponse{Code: status, Title: title, Message: http.StatusText(status)}

	var business portal.Response
	if errors.As(portal.ValidateBusinessError(err, "wizard"), &business) {
		body.Message = business.Message
		body.BusinessCode = business.Code
	}

	if status >= http.StatusInternalServerError {
		g.logger.Log(c.UserContext(), log.LevelWarn, "wizard backend call failed",
			log.String("path", c.Path()),
			log.Status(status),
			log.Err(err),
		)
	}

	if e == nil {
		return libHTTP.JSONResponse(c, status, body)
	}

	// A busy rejection leaves notifications to the call that holds the session.
	resp := g.respond(e, !errors.Is(err, wizard.ErrBusy))
	resp.Error = &body

	return libHTTP.JSONResponse(c, status, resp)
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, wizard.ErrClosed):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, wizard.ErrDiscarded):
		return http.StatusConflict, "request_discarded"
	case errors.Is(err, constant.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, constant.ErrWizardBusy):
		return http.StatusConflict, "wizard_busy"
	case errors.Is(err, constant.ErrInvalidWizardTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, constant.ErrDuplicateRequest):
		return http.StatusConflict, "duplicate_request"
	case errors.Is(err, constant.ErrBackendFailure):
		return backendStatus(err)
	default:
		return http.StatusInternalServerError, "request_failed"
	}
}

func (g *Gateway) record(ctx context.Context, fn func(context.Context, string, string) error, flow wizard.Flow, outcome string) {
	if err := fn(ctx, string(flow), outcome); err != nil {
		g.logger.Log(ctx, log.LevelDebug, "metric not recorded", log.Err(err))
	}
}
