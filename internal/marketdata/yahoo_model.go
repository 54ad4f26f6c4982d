package marketdata

// YahooResponse maps the raw JSON response of the Yahoo Finance chart API.
//
// Only the fields this provider consumes are modeled: per-result timestamps,
// the close column of the first quote block, and the top-level error field.
// Close values are pointers because Yahoo emits null for days without a
// usable close.
type YahooResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}
