package gemini

// gaitPrompt is the fixed instruction sent with every video. The response
// shape is enforced separately by the JSON response schema.
const gaitPrompt = `
You are an expert Neurologist. Analyze gait for Parkinson's.
Evaluate: Arm Swing, Stride Length, Turning Hesitation.
Return JSON: parkinson_probability (int), freezing_percentage (float),
bradykinesia_score (0-3), freezing_score (0-3), variability_score (0-3),
reasoning (str), clinical_interpretation (str), recommendation (str).
`
