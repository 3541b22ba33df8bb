package calculator

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DisplayRow is one labelled output value in display order.
type DisplayRow struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"-"`
	Text  string  `json:"value"`
}

// Display lists the orchard outputs the way the calculator page shows them.
// The third row is Arnold Palmers or Lemonade depending on MakePalmers.
func (o OrchardOutput) Display(in OrchardInput) []DisplayRow {
	lemLabel, lemValue := "Lemonade", o.Lemonade
	if in.MakePalmers {
		lemLabel, lemValue = "Arnold Palmers", o.Palmers
	}
	rows := []DisplayRow{
		{ID: "apples", Label: "Apples", Value: o.Apples},
		{ID: "oj", Label: "OJ", Value: o.OJ},
		{ID: "lemOrPalmers", Label: lemLabel, Value: lemValue},
		{ID: "explores", Label: "Explores", Value: o.Explores},
		{ID: "stamina", Label: "Stamina", Value: o.Stamina},
	}
	for i := range rows {
		rows[i].Text = FormatNumber(rows[i].Value)
	}
	return rows
}

var printer = message.NewPrinter(language.English)

// FormatNumber renders v with thousands separators and at most three
// fractional digits; non-finite values print as ∞, -∞ and NaN.
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	case math.IsNaN(v):
		return "NaN"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}
