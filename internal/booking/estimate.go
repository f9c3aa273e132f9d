package booking

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleCustomer = "customer"
	RoleProvider = "provider"

	TransitionRequestPayment = "transition/request-payment"

	EstimatedTransactionID = "estimated-transaction"
	EstimatedBookingID     = "estimated-booking"
)

// LineItem is one priced line of a booking, as returned by the line item
// calculation.
type LineItem struct {
	Code       string          `json:"code" validate:"required"`
	UnitPrice  Money           `json:"unitPrice"`
	Quantity   decimal.Decimal `json:"quantity"`
	LineTotal  Money           `json:"lineTotal"`
	IncludeFor []string        `json:"includeFor"`
	Reversal   bool            `json:"reversal"`
}

func (li LineItem) includedFor(role string) bool {
	return slices.Contains(li.IncludeFor, role)
}

// Transition is one entry of a transaction's transition history.
type Transition struct {
	CreatedAt  time.Time `json:"createdAt"`
	By         string    `json:"by"`
	Transition string    `json:"transition"`
}

// TransactionAttributes carries the priced part of an estimated transaction.
type TransactionAttributes struct {
	CreatedAt          time.Time    `json:"createdAt"`
	LastTransitionedAt time.Time    `json:"lastTransitionedAt"`
	LastTransition     string       `json:"lastTransition"`
	PayinTotal         Money        `json:"payinTotal"`
	PayoutTotal        Money        `json:"payoutTotal"`
	LineItems          []LineItem   `json:"lineItems"`
	Transitions        []Transition `json:"transitions"`
}

// BookingAttributes holds the booking period in the marketplace's time zone.
type BookingAttributes struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Booking is the booking attached to an estimated transaction.
type Booking struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Attributes BookingAttributes `json:"attributes"`
}

// Transaction is an estimated transaction used to render a price breakdown.
type Transaction struct {
	ID         string                `json:"id"`
	Type       string                `json:"type"`
	Attributes TransactionAttributes `json:"attributes"`
	Booking    Booking               `json:"booking"`
}

// Estimator builds estimated transactions.
type Estimator struct {
	defaultCurrency string
	now             func() time.Time
}

// NewEstimator creates an estimator that prices empty line item lists in
// defaultCurrency.
func NewEstimator(defaultCurrency string) *Estimator {
	return &Estimator{defaultCurrency: defaultCurrency, now: time.Now}
}

// EstimatedTotalPrice sums line totals. All items are expected to share a
// currency; the first item's unit price decides it.
func EstimatedTotalPrice(items []LineItem, defaultCurrency string) (Money, error) {
	sum := decimal.Zero
	for _, item := range items {
		value, err := item.LineTotal.toNumber()
		if err != nil {
			return Money{}, fmt.Errorf("line item %q: %w", item.Code, err)
		}
		sum = sum.Add(value)
	}

	code := defaultCurrency
	if len(items) > 0 && items[0].UnitPrice.Currency != "" {
		code = items[0].UnitPrice.Currency
	}
	return fromNumber(sum, code)
}

// EstimateTransaction builds an estimated transaction for role. Booking
// dates are moved to the start of their local day and then given the same
// wall-clock time in UTC, which is how the marketplace normalizes day
// bookings.
func (e *Estimator) EstimateTransaction(start, end time.Time, items []LineItem, role string) (Transaction, error) {
	now := e.now()

	customerItems := filterFor(items, RoleCustomer)
	providerItems := filterFor(items, RoleProvider)

	payin, err := EstimatedTotalPrice(customerItems, e.defaultCurrency)
	if err != nil {
		return Transaction{}, err
	}
	payout, err := EstimatedTotalPrice(providerItems, e.defaultCurrency)
	if err != nil {
		return Transaction{}, err
	}

	lineItems := providerItems
	if role == RoleCustomer {
		lineItems = customerItems
	}

	return Transaction{
		ID:   EstimatedTransactionID,
		Type: "transaction",
		Attributes: TransactionAttributes{
			CreatedAt:          now,
			LastTransitionedAt: now,
			LastTransition:     TransitionRequestPayment,
			PayinTotal:         payin,
			PayoutTotal:        payout,
			LineItems:          lineItems,
			Transitions: []Transition{{
				CreatedAt:  now,
				By:         RoleCustomer,
				Transition: TransitionRequestPayment,
			}},
		},
		Booking: Booking{
			ID:   EstimatedBookingID,
			Type: "booking",
			Attributes: BookingAttributes{
				Start: startOfDayUTC(start),
				End:   startOfDayUTC(end),
			},
		},
	}, nil
}

func filterFor(items []LineItem, role string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.includedFor(role) {
			out = append(out, item)
		}
	}
	return out
}

func startOfDayUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
