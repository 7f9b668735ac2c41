package model

//
// Survey run outcome
//

// SurveyResult is the outcome of a whole survey run.
//
// On success Wifi and Bandwidth are both set and Status is empty. On
// preflight failure, cancellation, or consistency failure the result
// carries a human-readable Status and nil result objects: a run that
// cannot vouch for its numbers returns none.
type SurveyResult struct {
	// Wifi describes the associated network. Its SignalStrength is
	// the rounded mean of the samples taken during the run and its
	// RSSI is recomputed from that average.
	Wifi *WifiNetwork `json:"wifiResult"`

	// Bandwidth holds the four bandwidth sub-test results.
	Bandwidth *BandwidthSurveyResult `json:"bandwidthResult"`

	// Status is empty on success, otherwise the reason why there are
	// no results.
	Status string `json:"status"`
}
