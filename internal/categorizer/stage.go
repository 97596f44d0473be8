package categorizer

// Stage is a step of the categorization state machine. A run moves through
// every stage in order; Sorted is terminal.
type Stage int

const (
	Initialized Stage = iota
	FirstPass
	SecondPass
	Deduplicated
	Capped
	Sorted
)

var stageNames = map[Stage]string{
	Initialized:  "initialized",
	FirstPass:    "first_pass",
	SecondPass:   "second_pass",
	Deduplicated: "deduplicated",
	Capped:       "capped",
	Sorted:       "sorted",
}

// String returns the stage's snake_case name
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the stage by name
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Next returns the stage that follows s. Sorted is its own successor.
func (s Stage) Next() Stage {
	if s >= Sorted {
		return Sorted
	}
	return s + 1
}

// Terminal reports whether s ends the run
func (s Stage) Terminal() bool {
	return s == Sorted
}
