package finsight

import (
	"github.com/shopspring/decimal"

	"github.com/maxencebernardhub/smb-finsight/date"
)

// Entry is a normalized accounting entry. Amount follows the
// credit-positive convention: revenues are positive, expenses negative.
type Entry struct {
	Date        date.Date
	Code        string
	Description string
	Amount      decimal.Decimal
}
