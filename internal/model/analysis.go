package model

// GaitAnalysis is the structured gait assessment returned by the video
// backend. It is passed through to the client unmodified and never persisted.
type GaitAnalysis struct {
	ParkinsonProbability   int     `json:"parkinson_probability"`
	FreezingPercentage     float64 `json:"freezing_percentage"`
	BradykinesiaScore      int     `json:"bradykinesia_score"`
	FreezingScore          int     `json:"freezing_score"`
	VariabilityScore       int     `json:"variability_score"`
	Reasoning              string  `json:"reasoning"`
	ClinicalInterpretation string  `json:"clinical_interpretation"`
	Recommendation         string  `json:"recommendation"`
}

// VoicePrediction is the audio endpoint's response body.
type VoicePrediction struct {
	Probability float64   `json:"probability"`
	Prediction  string    `json:"prediction"`
	RawFeatures []float64 `json:"raw_features"`
}
