package platform

import (
	"ledtoggle-go/services/hal/internal/platform/setups"
	"ledtoggle-go/types"
)

// SelectedWiring is the wiring chosen at build time (see setups).
func SelectedWiring() types.Wiring { return setups.Selected }
