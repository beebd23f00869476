package domain

type GuestCounts struct {
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
	Total     int `json:"total"`
}

// GuestCountsFor tallies an event's guests by status
func GuestCountsFor(e Event) GuestCounts {
	var c GuestCounts
	for _, g := range e.Guests {
		switch g.Status {
		case GuestConfirmed:
			c.Confirmed++
		case GuestPending:
			c.Pending++
		}
	}
	c.Total = len(e.Guests)
	return c
}

// GuestsByStatus returns the guests with the given status, in invitation order
func GuestsByStatus(e Event, status GuestStatus) []Guest {
	var result []Guest
	for _, g := range e.Guests {
		if g.Status == status {
			result = append(result, g)
		}
	}
	return result
}
