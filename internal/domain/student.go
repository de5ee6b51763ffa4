package domain

// Student is an enrolled learner.
type Student struct {
	Base
	Name   string
	Age    int
	Branch string
}

func (s *Student) ToJSON() map[string]any {
	return merge(map[string]any{
		"id":     s.ID,
		"name":   s.Name,
		"age":    s.Age,
		"branch": s.Branch,
	}, s)
}
