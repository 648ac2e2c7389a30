package reactive

// ParameterStore is the host side of parameter tracking.
type ParameterStore interface {
	ParameterValue(id ParamID) float64
}

// StatusSource exposes the status bitmask of each UI element.
type StatusSource interface {
	Status(el ElementID) StatusFlags
}

// ElementTree is the retained widget tree. The engine only touches it from
// inside task execution.
type ElementTree interface {
	// DestroySubtree removes el and its descendants and returns every
	// destroyed id.
	DestroySubtree(el ElementID) []ElementID
}
