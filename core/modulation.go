package core

import (
	"math"

	"github.com/lumenfoundry/eon-simulator/model"
)

// slotOverheadFactor models guard-band and framing overhead on top of the
// raw capacity slots. Fixed policy constant.
const slotOverheadFactor = 3

// ChooseModulation picks the modulation whose reach covers the path's
// physical length and which needs the fewest slots for the requested
// bandwidth; ties prefer the higher bitrate. ok is false when no modulation
// reaches the required distance, which callers treat as a blocked request.
func ChooseModulation(pathLength int, sizeGbps float64) (mod model.Modulation, nSlots int, ok bool) {
	for _, m := range model.Modulations {
		if m.MaxDistance < pathLength {
			continue
		}
		slots := int(math.Ceil(sizeGbps/float64(m.MaxBitrate))) * slotOverheadFactor
		if !ok || slots < nSlots || (slots == nSlots && m.MaxBitrate > mod.MaxBitrate) {
			mod, nSlots, ok = m, slots, true
		}
	}
	return mod, nSlots, ok
}
