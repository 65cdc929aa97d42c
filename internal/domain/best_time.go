package domain

// BestTime - best completion time for one difficulty
type BestTime struct {
	Difficulty string `json:"difficulty"`
	Seconds    int    `json:"seconds"`
}

// HasRecord reports whether Seconds is a real record rather than the default.
func (b BestTime) HasRecord() bool {
	return b.Seconds < DefaultBestTime
}
