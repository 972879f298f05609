package register

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Method enumerates how a sale is paid.
type Method string

const (
	MethodCash  Method = "cash"
	MethodCard  Method = "card"
	MethodUPI   Method = "upi"
	MethodSplit Method = "split"
)

// ParseMethod validates a payment method string.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodCash, MethodCard, MethodUPI, MethodSplit:
		return m, nil
	default:
		return "", errors.Errorf("unknown payment method: %q", s)
	}
}

// Channel is one of the three tender channels money can arrive through.
type Channel string

const (
	ChannelCash Channel = "cash"
	ChannelCard Channel = "card"
	ChannelUPI  Channel = "upi"
)

// ParseChannel validates a tender channel string.
func ParseChannel(s string) (Channel, error) {
	switch c := Channel(s); c {
	case ChannelCash, ChannelCard, ChannelUPI:
		return c, nil
	default:
		return "", errors.Errorf("unknown tender channel: %q", s)
	}
}

// Tender holds the amounts entered per payment channel. Switching the payment
// method does not clear amounts, so a cashier can pre-fill channels and pick
// the mode afterwards; amounts on channels outside the active mode are inert.
type Tender struct {
	Cash decimal.Decimal
	Card decimal.Decimal
	UPI  decimal.Decimal
}

// Set records the amount for one channel.
func (t *Tender) Set(ch Channel, amount decimal.Decimal) {
	switch ch {
	case ChannelCash:
		t.Cash = amount
	case ChannelCard:
		t.Card = amount
	case ChannelUPI:
		t.UPI = amount
	}
}

// Total returns the tendered amount under the given method: the sum of all
// three channels in split mode, otherwise the single active channel.
func (t Tender) Total(m Method) decimal.Decimal {
	switch m {
	case MethodSplit:
		return t.Cash.Add(t.Card).Add(t.UPI)
	case MethodCard:
		return t.Card
	case MethodUPI:
		return t.UPI
	default:
		return t.Cash
	}
}
