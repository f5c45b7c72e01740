package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a whole-unit amount with thousands separators, e.g. 12,500
func FormatAmount(amount int64) string {
	return printer.Sprintf("%d", amount)
}

// OutbidText tells the previous leader they were outbid
func OutbidText(itemName string, newAmount int64) string {
	return printer.Sprintf("You have been outbid on %s. The new highest bid is %s.", itemName, FormatAmount(newAmount))
}

// WonText tells the winner the auction result
func WonText(itemName string, amount int64) string {
	return printer.Sprintf("Congratulations! You won the auction for %s with a bid of %s.", itemName, FormatAmount(amount))
}

// ClosedText tells the creator their auction closed; amount 0 means no bids
func ClosedText(itemName string, amount int64) string {
	if amount == 0 {
		return printer.Sprintf("Your auction for %s has ended with no bids. Winning bid: 0.", itemName)
	}
	return printer.Sprintf("Your auction for %s has ended. Winning bid: %s.", itemName, FormatAmount(amount))
}
