package abtest

// Input holds the raw counts and test settings for one experiment.
// A is the control group and B the variant.
type Input struct {
	SampleSizeA  int         `json:"sample_size_a"`
	ConversionsA int         `json:"conversions_a"`
	SampleSizeB  int         `json:"sample_size_b"`
	ConversionsB int         `json:"conversions_b"`
	Alpha        float64     `json:"alpha"`
	Alternative  Alternative `json:"alternative"`
}

// Result is the outcome of one evaluation. It is produced by Evaluate and
// never modified afterwards; pass it by value.
type Result struct {
	SampleSizeA  int `json:"sample_size_a"`
	ConversionsA int `json:"conversions_a"`
	SampleSizeB  int `json:"sample_size_b"`
	ConversionsB int `json:"conversions_b"`

	ConversionRateA  float64 `json:"conversion_rate_a"`
	ConversionRateB  float64 `json:"conversion_rate_b"`
	AbsoluteLift     float64 `json:"absolute_lift"`
	RelativeLift     float64 `json:"relative_lift"`
	PooledProportion float64 `json:"pooled_proportion"`
	StandardError    float64 `json:"standard_error"`
	ZScore           float64 `json:"z_score"`
	PValue           float64 `json:"p_value"`
	IsSignificant    bool    `json:"is_significant"`

	Alpha       float64     `json:"alpha"`
	Alternative Alternative `json:"alternative"`
}
