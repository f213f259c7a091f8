package trade

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"StockPulse/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	ErrNoStock           = errors.New("no stock selected")
	ErrInvalidShares     = errors.New("invalid number of shares")
	ErrMissingLimitPrice = errors.New("limit price required")
	ErrInvalidPrice      = errors.New("invalid limit price")
	// ErrInsufficientShares rejects a sell the book cannot cover.
	ErrInsufficientShares = errors.New("insufficient shares")
)

// Message returns the text shown to the user for a rejected ticket.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNoStock), errors.Is(err, ErrInvalidShares):
		return "Please enter a valid number of shares"
	case errors.Is(err, ErrMissingLimitPrice):
		return "Please enter a limit price"
	case errors.Is(err, ErrInvalidPrice):
		return "Please enter a valid limit price"
	case errors.Is(err, ErrInsufficientShares):
		return "Not enough shares to sell"
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}

// Rejected reports whether err is a ticket validation failure rather than
// a storage error.
func Rejected(err error) bool {
	return errors.Is(err, ErrNoStock) || errors.Is(err, ErrInvalidShares) ||
		errors.Is(err, ErrMissingLimitPrice) || errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInsufficientShares)
}

// Ticket is the raw state of the order form. Numeric fields hold what the
// user typed.
type Ticket struct {
	Kind       model.OrderType `json:"orderType"`
	Shares     string          `json:"shares"`
	LimitPrice string          `json:"limitPrice"`
}

// Order is a parsed ticket ready for submission.
type Order struct {
	Symbol    string          `validate:"required"`
	Side      model.TradeType `validate:"required,oneof=buy sell"`
	OrderType model.OrderType `validate:"required,oneof=market limit"`
	Shares    float64         `validate:"gt=0"`
	Price     float64         `validate:"gt=0"`
}

// Total is Shares × Price rounded to cents.
func (o Order) Total() decimal.Decimal {
	return decimal.NewFromFloat(o.Shares).Mul(decimal.NewFromFloat(o.Price)).Round(2)
}

func (t Ticket) kind() model.OrderType {
	if t.Kind == "" {
		return model.OrderMarket
	}
	return t.Kind
}

// NumShares is the share count as typed, or 0 when it does not start with a
// number.
func (t Ticket) NumShares() float64 { return parseLeadingFloat(t.Shares) }

// Price is the limit price for limit orders and the stock's quote otherwise.
func (t Ticket) Price(stock *model.Stock) float64 {
	if t.kind() == model.OrderLimit {
		return parseLeadingFloat(t.LimitPrice)
	}
	if stock == nil {
		return 0
	}
	return stock.Price
}

// Estimate is the order value shown under the form.
func (t Ticket) Estimate(stock *model.Stock) decimal.Decimal {
	return decimal.NewFromFloat(t.NumShares()).Mul(decimal.NewFromFloat(t.Price(stock)))
}

var validate = validator.New()

// Order parses the ticket for stock and side. Rejections are reported in the
// order the form checks them.
func (t Ticket) Order(stock *model.Stock, side model.TradeType) (Order, error) {
	shares := t.NumShares()
	if stock == nil {
		return Order{}, ErrNoStock
	}
	if shares <= 0 {
		return Order{}, ErrInvalidShares
	}
	if t.kind() == model.OrderLimit && strings.TrimSpace(t.LimitPrice) == "" {
		return Order{}, ErrMissingLimitPrice
	}

	o := Order{
		Symbol:    stock.Symbol,
		Side:      side,
		OrderType: t.kind(),
		Shares:    shares,
		Price:     t.Price(stock),
	}
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			switch verrs[0].Field() {
			case "Price":
				return Order{}, ErrInvalidPrice
			case "Shares":
				return Order{}, ErrInvalidShares
			}
		}
		return Order{}, err
	}
	return o, nil
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseLeadingFloat parses the longest numeric prefix of s, ignoring leading
// whitespace. Anything unparsable is 0.
func parseLeadingFloat(s string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}
