package domain

// Stats holds site-wide entity counts shown on the admin dashboard.
type Stats struct {
	Posts      int `json:"posts"`
	Categories int `json:"categories"`
	Comments   int `json:"comments"`
	Users      int `json:"users"`
}
