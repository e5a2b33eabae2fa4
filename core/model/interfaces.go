package model

// Predictor evaluates a fitted curve.
type Predictor interface {
	// Predict evaluates the curve at every x.
	Predict(x []float64) ([]float64, error)
}

// Stateful is implemented by curves that hold fit state.
type Stateful interface {
	IsFitted() bool
	Reset()
}

// Recorder exports a fit as a serializable FitRecord.
type Recorder interface {
	Record() (*FitRecord, error)
}

// FittedCurve combines the interfaces of a stateful curve model.
type FittedCurve interface {
	Predictor
	Stateful
	Recorder
}
