package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/circuitbreaker"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/client"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/listing"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
	libHTTP "github.com/sayjeyhi/loc-mp-v2-sub000/portal/net/http"
)

func (g *Gateway) getAccount(c *fiber.Ctx) error {
	account, err := g.reader.Account(c.UserContext())
	if err != nil {
		return g.respondReadError(c, "account", err)
	}

	return libHTTP.OK(c, account)
}

func (g *Gateway) listContracts(c *fiber.Ctx) error {
	return list(g, c, "contracts", g.reader.Contracts, client.ContractSchema)
}

func (g *Gateway) listPayments(c *fiber.Ctx) error {
	return list(g, c, "payments", g.reader.Payments, client.PaymentSchema)
}

func (g *Gateway) listTransactions(c *fiber.Ctx) error {
	return list(g, c, "transactions", g.reader.Transactions, client.TransactionSchema)
}

func list[T any](g *Gateway, c *fiber.Ctx, operation string, fetch func(context.Context) ([]T, error), schema listing.Schema[T]) error {
	q, err := libHTTP.ParseListQuery(c)
	if err != nil {
		return libHTTP.RespondError(c, http.StatusBadRequest, "invalid_query", err.Error())
	}

	rows, err := fetch(c.UserContext())
	if err != nil {
		return g.respondReadError(c, operation, err)
	}

	page, err := listing.Apply(rows, q, schema)
	if err != nil {
		return libHTTP.RespondError(c, http.StatusBadRequest, "invalid_query", err.Error())
	}

	return libHTTP.OK(c, page)
}

func (g *Gateway) respondReadError(c *fiber.Ctx, operation string, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && client.IsClientError(err) {
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.Status)
		}

		return libHTTP.RespondError(c, apiErr.Status, "backend_rejected", message)
	}

	status, title := backendStatus(err)

	g.logger.Log(c.UserContext(), log.LevelWarn, "backend read failed",
		log.Operation(operation),
		log.Status(status),
		log.Err(err),
	)

	return libHTTP.RespondError(c, status, title, http.StatusText(status))
}

// backendStatus maps a failed backend call: an open breaker is 503, anything
// else 502.
func backendStatus(err error) (int, string) {
	if errors.Is(err, circuitbreaker.ErrServiceUnavailable) {
		return http.StatusServiceUnavailable, "service_unavailable"
	}

	return http.StatusBadGateway, "backend_failure"
}
