package domain

// Setting is a flat key to string-or-JSON value pair (theme, volume, layout).
type Setting struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt int64  `json:"updated_at"`
}
