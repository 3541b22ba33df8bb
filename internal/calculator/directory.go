package calculator

// Entry describes one calculator page in the calculators index.
type Entry struct {
	Title string `json:"title"`
	Image string `json:"image"`
	Href  string `json:"href"`
}

// Directory returns the calculators index in display order.
func Directory() []Entry {
	return []Entry{
		{Title: "XP Calculator", Image: "/img/items/6137.png", Href: "/xpcalc/"},
		{Title: "Orchard Calculator", Image: "/img/items/orchard_sm.png", Href: "/orchardcalc/"},
		{Title: "Tower Calculator", Image: "/img/items/tower.png", Href: "/towercalc/"},
		{Title: "Farm Animal Calculator", Image: "/img/items/pigpen_sm.png", Href: "/animalcalc/"},
	}
}
