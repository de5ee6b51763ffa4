package domain

// Volunteer offers their time on the schedule given in Availability.
type Volunteer struct {
	Base
	Name         string
	Contact      string
	Availability string
}

func (v *Volunteer) ToJSON() map[string]any {
	return merge(map[string]any{
		"id":           v.ID,
		"name":         v.Name,
		"contact":      v.Contact,
		"availability": v.Availability,
	}, v)
}
