package salescontext

import (
	"context"

	"github.com/google/uuid"
)

// HeaderContextToken is the header carrying the sales-context token.
const HeaderContextToken = "X-Context-Token"

// Context is the caller's current shop context. It determines which payment
// methods are offered and which customer owns the request.
type Context struct {
	Token          string    `json:"token"`
	SalesChannelID uuid.UUID `json:"sales_channel_id"`
	CurrencyCode   string    `json:"currency_code"`
	CustomerID     uuid.UUID `json:"customer_id"`
	Guest          bool      `json:"guest"`
}

// Authenticated reports whether a customer identity (registered or logged-in
// guest) is bound to the context.
func (c *Context) Authenticated() bool {
	return c != nil && c.CustomerID != uuid.Nil
}

type ctxKey struct{}

// With returns a new context carrying the sales context.
func With(ctx context.Context, sc *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, sc)
}

// From returns the sales context from ctx, or nil.
func From(ctx context.Context) *Context {
	sc, _ := ctx.Value(ctxKey{}).(*Context)
	return sc
}
