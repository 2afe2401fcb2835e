package api

// Profile is a budgeting profile visible to the API token.
type Profile struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}
