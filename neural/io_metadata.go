package neural

// IODescriptor describes a brain input or output for UI display.
type IODescriptor struct {
	ID    string
	Label string
	Min   float64
	Max   float64
}

// InputDescriptors returns metadata for all brain inputs, in vector order.
func InputDescriptors() []IODescriptor {
	return []IODescriptor{
		{ID: "sound", Label: "Sound", Min: 0, Max: 4},
		{ID: "smell", Label: "Smell", Min: -1, Max: 12},
		{ID: "clock1", Label: "Clock 1", Min: -1, Max: 1},
		{ID: "clock2", Label: "Clock 2", Min: -1, Max: 1},
	}
}

// OutputDescriptors returns metadata for all brain outputs, in vector order.
func OutputDescriptors() []IODescriptor {
	return []IODescriptor{
		{ID: "spike", Label: "Spike", Min: -0.5, Max: 0.5},
		{ID: "steering", Label: "Steer", Min: -0.5, Max: 0.5},
		{ID: "speed", Label: "Speed", Min: -0.5, Max: 0.5},
		{ID: "r", Label: "Red", Min: -0.5, Max: 0.5},
		{ID: "g", Label: "Green", Min: -0.5, Max: 0.5},
		{ID: "b", Label: "Blue", Min: -0.5, Max: 0.5},
	}
}
