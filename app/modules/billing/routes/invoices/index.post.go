package invoices

import (
	"net/http"

	"github.com/joeydtaylor/steeze-fsrouter/app/modules/billing/ledger"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/manifest"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/response"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/validate"
)

var newInvoice = validate.MustCompile(`{
	"type": "object",
	"required": ["customer", "amountCents"],
	"additionalProperties": false,
	"properties": {
		"customer":    {"type": "string", "minLength": 1},
		"amountCents": {"type": "integer", "minimum": 1},
		"currency":    {"type": "string", "enum": ["EUR", "USD"]}
	}
}`)

func init() {
	manifest.Register("modules/billing/routes/invoices/index.post.go", manifest.Module{
		Default: createInvoice,
		OnRequest: []event.RequestHook{
			auth.RequireAdmin,
			validate.Body(newInvoice),
		},
		OnBeforeResponse: []event.ResponseHook{response.AddMetadata},
		OnError:          []event.ErrorHook{response.ErrorHandler},
	})
}

func createInvoice(c *event.Context) (any, error) {
	in, err := validate.Bind[ledger.Invoice](c)
	if err != nil {
		return nil, err
	}
	if in.Currency == "" {
		in.Currency = "EUR"
	}
	c.SetStatus(http.StatusCreated)
	return event.Success(ledger.Default.Add(in), "Invoice created"), nil
}
