// Package calculator implements the game calculators as pure functions of
// their inputs: defaults merged with user overrides, plus read-only lookup
// tables. Nothing here persists; callers write chosen values back to settings.
package calculator

import (
	"math"

	"buddyfarm/internal/location"

	"github.com/shopspring/decimal"
)

const defaultTrees = 2100

// OrchardInput is the fully resolved input of the orchard calculator.
type OrchardInput struct {
	AppleTrees    int    `json:"appleTrees"`
	OrangeTrees   int    `json:"orangeTrees"`
	LemonTrees    int    `json:"lemonTrees"`
	MaxInventory  int    `json:"maxInventory"`
	Forester      int    `json:"forester"`
	ResourceSaver int    `json:"resourceSaver"`
	Wanderer      int    `json:"wanderer"`
	LemonSqueezer bool   `json:"lemonSqueezer"`
	Location      string `json:"location"`
	MakeCiders    bool   `json:"makeCiders"`
	MakePalmers   bool   `json:"makePalmers"`
}

// DefaultOrchardInput returns the baseline every evaluation starts from.
func DefaultOrchardInput() OrchardInput {
	return OrchardInput{
		AppleTrees:    defaultTrees,
		OrangeTrees:   defaultTrees,
		LemonTrees:    defaultTrees,
		MaxInventory:  int(math.Ceil(defaultTrees * 1.3)),
		Forester:      30,
		ResourceSaver: 20,
		Wanderer:      33,
		LemonSqueezer: true,
		Location:      "Whispering Creek",
		MakeCiders:    false,
		MakePalmers:   true,
	}
}

// OrchardOutput holds every derived value. Values are float64 so that
// degenerate perk percentages can surface as +Inf or NaN.
type OrchardOutput struct {
	ResourceSaverMul float64 `json:"resourceSaverMul"`
	ForesterMul      float64 `json:"foresterMul"`
	WandererMul      float64 `json:"wandererMul"`
	Apples           float64 `json:"apples"`
	Oranges          float64 `json:"oranges"`
	Lemons           float64 `json:"lemons"`
	AppleStamina     float64 `json:"appleStamina"`
	OJ               float64 `json:"oj"`
	OJStamina        float64 `json:"ojStamina"`
	Lemonade         float64 `json:"lemonade"`
	Palmers          float64 `json:"palmers"`
	LemonadeItems    float64 `json:"lemonadeItems"`
	LemonadeExplores float64 `json:"lemonadeExplores"`
	Explores         float64 `json:"explores"`
	Stamina          float64 `json:"stamina"`
}

// Orchard converts a season of orchard yield into explores and stamina.
//
// Yields are rounded to the nearest integer and capped by inventory; every
// conversion after that truncates, matching the game. The cap does not apply
// to stamina or to anything brewed from the capped yield.
func Orchard(in OrchardInput, loc location.Row) OrchardOutput {
	var out OrchardOutput
	out.ResourceSaverMul = 1 / percentMul(-in.ResourceSaver)
	out.ForesterMul = percentMul(in.Forester)
	out.WandererMul = percentMul(-in.Wanderer)

	maxInv := float64(in.MaxInventory)
	out.Apples = math.Min(roundHalfUp(float64(in.AppleTrees)*out.ForesterMul), maxInv)
	out.Oranges = math.Min(roundHalfUp(float64(in.OrangeTrees)*out.ForesterMul), maxInv)
	out.Lemons = math.Min(roundHalfUp(float64(in.LemonTrees)*out.ForesterMul), maxInv)

	if !in.MakeCiders {
		out.AppleStamina = out.Apples * 15
	}
	out.OJ = math.Floor(out.Oranges / 6 * out.ResourceSaverMul)
	out.OJStamina = out.OJ * 100
	out.Lemonade = math.Floor(out.Lemons / 6 * out.ResourceSaverMul)
	out.Palmers = math.Floor(out.Lemonade / 20 * out.ResourceSaverMul)

	if in.MakePalmers {
		out.LemonadeItems = out.Palmers * pick(in.LemonSqueezer, 500, 250)
	} else {
		out.LemonadeItems = out.Lemonade * pick(in.LemonSqueezer, 20, 10)
	}
	out.LemonadeExplores = roundHalfUp(out.LemonadeItems / loc.BaseDropRate)

	fruitStamina := out.AppleStamina + out.OJStamina
	out.Explores = math.Floor(fruitStamina/out.WandererMul) + out.LemonadeExplores
	out.Stamina = fruitStamina + math.Floor(out.LemonadeExplores*out.WandererMul)
	return out
}

// EvaluateOrchard resolves the input from defaults and override layers, looks
// the location up by exact name and runs Orchard. An unknown location is
// returned as *location.UnknownError.
func EvaluateOrchard(defaults OrchardInput, table *location.Table, layers ...OrchardOverrides) (OrchardInput, OrchardOutput, error) {
	in := ResolveOrchardInput(defaults, layers...)
	loc, err := table.Lookup(in.Location)
	if err != nil {
		return in, OrchardOutput{}, err
	}
	return in, Orchard(in, loc), nil
}

// percentMul returns 1 + pct/100. The sum is taken in decimal so that, for
// example, a 33% reduction is exactly 0.67 before float math starts.
func percentMul(pct int) float64 {
	return decimal.NewFromInt(1).Add(decimal.New(int64(pct), -2)).InexactFloat64()
}

// roundHalfUp rounds to the nearest integer with ties going toward +Inf.
func roundHalfUp(x float64) float64 {
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return r
}

func pick(cond bool, yes, no float64) float64 {
	if cond {
		return yes
	}
	return no
}
