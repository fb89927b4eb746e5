package currency

import "github.com/shopspring/decimal"

// Input holds the text of one amount entry field for the length of a
// form session. Each change event replaces the text with its formatted form.
type Input struct {
	text string
}

// NewInput returns an Input pre-filled with a stored amount.
// A zero amount leaves the field empty.
func NewInput(initial decimal.Decimal) *Input {
	in := &Input{}
	if !initial.IsZero() {
		in.text = Display(initial)
	}
	return in
}

// Type records the field's new raw contents and returns the display text.
func (in *Input) Type(raw string) string {
	in.text = Format(in.text, raw)
	return in.text
}

// Text returns the current display text.
func (in *Input) Text() string {
	return in.text
}

// Canonical returns the current text in period-decimal form.
func (in *Input) Canonical() string {
	return Canonicalize(in.text)
}

// Amount parses the current text; see ParseAmount.
func (in *Input) Amount() (decimal.Decimal, bool) {
	return ParseAmount(in.Canonical())
}
