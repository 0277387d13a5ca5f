package engine

// Tile is a foreground tile type (fg & 0x1f).
type Tile byte

// TileMask extracts the tile type from a foreground byte.
const TileMask = 0x1f

// Tile types.
const (
	TileEmpty Tile = iota
	TileFloor
	TileSpike
	TilePillar
	TileGate
	TileStuck
	TileCloser
	TileDoortopWithFloor
	TileBigpillarBottom
	TileBigpillarTop
	TilePotion
	TileLoose
	TileDoortop
	TileMirror
	TileDebris
	TileOpener
	TileLevelDoorLeft
	TileLevelDoorRight
	TileChomper
	TileTorch
	TileWall
	TileSkeleton
	TileSword
	TileBalconyLeft
	TileBalconyRight
	TileLatticePillar
	TileLatticeDown
	TileLatticeSmall
	TileLatticeLeft
	TileLatticeRight
	TileTorchWithDebris
)

var tileNames = [...]string{
	TileEmpty:            "Empty",
	TileFloor:            "Floor",
	TileSpike:            "Spike",
	TilePillar:           "Pillar",
	TileGate:             "Gate",
	TileStuck:            "Stuck",
	TileCloser:           "Closer",
	TileDoortopWithFloor: "Doortop With Floor",
	TileBigpillarBottom:  "Big Pillar Bottom",
	TileBigpillarTop:     "Big Pillar Top",
	TilePotion:           "Potion",
	TileLoose:            "Loose Tile",
	TileDoortop:          "Doortop",
	TileMirror:           "Mirror",
	TileDebris:           "Debris",
	TileOpener:           "Opener",
	TileLevelDoorLeft:    "Level Door Left",
	TileLevelDoorRight:   "Level Door Right",
	TileChomper:          "Chomper",
	TileTorch:            "Torch",
	TileWall:             "Wall",
	TileSkeleton:         "Skeleton",
	TileSword:            "Sword",
	TileBalconyLeft:      "Balcony Left",
	TileBalconyRight:     "Balcony Right",
	TileLatticePillar:    "Lattice Pillar",
	TileLatticeDown:      "Lattice Down",
	TileLatticeSmall:     "Lattice Small",
	TileLatticeLeft:      "Lattice Left",
	TileLatticeRight:     "Lattice Right",
	TileTorchWithDebris:  "Torch With Debris",
}

// TileOf extracts the tile type from a raw foreground byte.
func TileOf(fg byte) Tile {
	return Tile(fg & TileMask)
}

// Known reports whether t is a defined tile type.
func (t Tile) Known() bool {
	return int(t) < len(tileNames)
}

func (t Tile) String() string {
	if t.Known() {
		return tileNames[t]
	}
	return "Unknown"
}
