package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders balances with locale-appropriate grouping separators.
// It is stateless after construction; a malformed locale is a startup-time
// configuration error.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter builds a formatter for the given BCP 47 locale tag, e.g.
// "en-US" or "de".
func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{printer: message.NewPrinter(tag)}, nil
}

// Format renders the balance with grouping separators, e.g. 1234567 ->
// "1,234,567" under en-US.
func (f *Formatter) Format(balance int64) string {
	return f.printer.Sprintf("%d", balance)
}
