package model

// Modulation describes an optical encoding scheme: how many Gbps a single
// 12.5GHz slot-equivalent can carry, and how far the signal reaches before
// regeneration would be needed.
type Modulation struct {
	Name string
	// MaxBitrate is the capacity of one slot-equivalent, in Gbps.
	MaxBitrate int
	// MaxDistance is the optical reach in km.
	MaxDistance int
}

// Modulations is the fixed catalog, ordered by increasing bitrate. Denser
// schemes reach less far.
var Modulations = []Modulation{
	{Name: "BPSK", MaxBitrate: 50, MaxDistance: 6300},
	{Name: "QPSK", MaxBitrate: 100, MaxDistance: 3500},
	{Name: "16QAM", MaxBitrate: 150, MaxDistance: 1200},
	{Name: "32QAM", MaxBitrate: 200, MaxDistance: 600},
}
