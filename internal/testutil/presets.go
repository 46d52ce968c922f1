package testutil

// Preset builders for the kinds tests reach for most. Parameters beyond
// the required ones stay at catalog defaults.

// Dense returns a builder for a Dense layer record.
func Dense(units int) *SpecBuilder {
	return Spec("Dense").With("units", units)
}

// Dropout returns a builder for a Dropout layer record.
func Dropout(rate float64) *SpecBuilder {
	return Spec("Dropout").With("rate", rate)
}

// BatchNorm returns a builder for a BatchNormalization layer record.
func BatchNorm() *SpecBuilder {
	return Spec("BatchNormalization")
}

// LSTM returns a builder for an LSTM layer record.
func LSTM(units int) *SpecBuilder {
	return Spec("LSTM").With("units", units)
}

// Input returns a builder for an Input layer record.
func Input(shape ...int) *SpecBuilder {
	return Spec("Input").With("shape", shape)
}

// Sequential returns a builder for a Sequential model record wrapping
// the given layer records.
func Sequential(layers ...*SpecBuilder) *SpecBuilder {
	return Spec("Sequential").WithSpecs("layers", layers...)
}

// TimeDistributed returns a builder wrapping one inner layer record.
func TimeDistributed(inner *SpecBuilder) *SpecBuilder {
	return Spec("TimeDistributed").WithSpec("layer", inner)
}
