package main

import (
	"fmt"

	"roomedit/rom"
	"roomedit/room"

	"github.com/davecgh/go-spew/spew"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
}

// dumpRooms prints the native snapshot and side data of each listed room.
func dumpRooms(r *rom.ROM, ids []room.ID) error {
	st := room.NewStore(r)
	for _, id := range ids {
		s, err := st.Load(id)
		if err != nil {
			return err
		}
		fmt.Printf("room $%03X\n", uint16(id))
		fmt.Print(spewConfig.Sdump(s, room.ReadSideData(r, id)))
	}
	return nil
}
