package engine

// LevelExitDoorOpen derives whether the level exit door is open.
//
// The stored leveldoor_open flag wins when it is already set. Otherwise the
// door counts as open when any live trob sits on a left level-door tile,
// which is the case while the door is animating open.
func LevelExitDoorOpen(e Engine) bool {
	if Word(e, FieldLevelDoorOpen) != 0 {
		return true
	}
	for _, t := range Trobs(e) {
		idx := TileIndex(int(t.Room), int(t.Tilepos))
		if TileOf(LevelFg(e, idx)) == TileLevelDoorLeft {
			return true
		}
	}
	return false
}
