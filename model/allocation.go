package model

// Allocation records a live reservation of a contiguous slot range across all
// links of a path, so it can be released later. IDs are unique and
// monotonically increasing within a SpectrumManager instance.
type Allocation struct {
	ID int64
	// Path is the ordered node sequence, endpoints inclusive.
	Path []int
	// StartSlot and NSlots delimit the reserved slot range, identical on
	// every link of the path.
	StartSlot int
	NSlots    int
}
