package domain

// Donor records a person or organisation that gave to the programme.
// Amount is in whole currency units.
type Donor struct {
	Base
	Name    string
	Contact string
	Email   string
	Amount  int64
}

func (d *Donor) ToJSON() map[string]any {
	return merge(map[string]any{
		"id":      d.ID,
		"name":    d.Name,
		"contact": d.Contact,
		"email":   d.Email,
		"amount":  d.Amount,
	}, d)
}
