package engine

import "fmt"

// FieldID names one addressable piece of simulation memory.
type FieldID int

// Fields captured in frame records, in record order.
const (
	FieldQuickControl FieldID = iota
	FieldLevel
	FieldCheckpoint
	FieldUpsideDown
	FieldDrawnRoom
	FieldCurrentLevel
	FieldNextLevel
	FieldMobsCount
	FieldMobs
	FieldTrobsCount
	FieldTrobs
	FieldLevelDoorOpen
	FieldKid
	FieldHitpCurr
	FieldHitpMax
	FieldHitpBegLev
	FieldGrabTimer
	FieldHoldingSword
	FieldUnitedWithShadow
	FieldHaveSword
	FieldKidSwordStrike
	FieldPickupObjType
	FieldOffguard
	FieldGuard
	FieldChar
	FieldOpp
	FieldGuardhpCurr
	FieldGuardhpMax
	FieldDemoIndex
	FieldDemoTime
	FieldCurrGuardColor
	FieldGuardNoticeTimer
	FieldGuardSkill
	FieldShadowInitialized
	FieldGuardRefrac
	FieldJustblocked
	FieldDroppedout
	FieldCurrRowCollRoom
	FieldCurrRowCollFlags
	FieldBelowRowCollRoom
	FieldBelowRowCollFlags
	FieldAboveRowCollRoom
	FieldAboveRowCollFlags
	FieldPrevCollisionRow
	FieldFlashColor
	FieldFlashTime
	FieldNeedLevel1Music
	FieldIsScreaming
	FieldIsFeatherFall
	FieldLastLooseSound
	FieldRandomSeed
	FieldRemMin
	FieldRemTick
	FieldControlX
	FieldControlY
	FieldControlShift
	FieldControlForward
	FieldControlBackward
	FieldControlUp
	FieldControlDown
	FieldControlShift2
	FieldCtrl1Forward
	FieldCtrl1Backward
	FieldCtrl1Up
	FieldCtrl1Down
	FieldCtrl1Shift2
	FieldExitRoomTimer
	FieldReplayCurrTick
	FieldIsGuardNotice
	FieldCanGuardSeeKid

	// Engine-internal fields that are read or written by the tooling but
	// never captured in a record.
	FieldHitpDelta
	FieldGuardhpDelta
	FieldIsRestartLevel
	FieldJumpedThroughMirror
	FieldEnableCopyprot
	FieldDifferentRoom
	FieldNextRoom

	fieldCount
)

// FieldInfo describes the storage of a field.
type FieldInfo struct {
	Symbol string // engine symbol name
	Size   int    // bytes
	// Local fields belong to the tooling rather than the engine library;
	// bindings allocate them privately.
	Local bool
}

var fieldInfo = [fieldCount]FieldInfo{
	FieldQuickControl:      {Symbol: "quick_control", Size: 9, Local: true},
	FieldLevel:             {Symbol: "level", Size: LevelSize},
	FieldCheckpoint:        {Symbol: "checkpoint", Size: 2},
	FieldUpsideDown:        {Symbol: "upside_down", Size: 2},
	FieldDrawnRoom:         {Symbol: "drawn_room", Size: 2},
	FieldCurrentLevel:      {Symbol: "current_level", Size: 2},
	FieldNextLevel:         {Symbol: "next_level", Size: 2},
	FieldMobsCount:         {Symbol: "mobs_count", Size: 2},
	FieldMobs:              {Symbol: "mobs", Size: MaxMobs * MobSize},
	FieldTrobsCount:        {Symbol: "trobs_count", Size: 2},
	FieldTrobs:             {Symbol: "trobs", Size: MaxTrobs * TrobSize},
	FieldLevelDoorOpen:     {Symbol: "leveldoor_open", Size: 2},
	FieldKid:               {Symbol: "Kid", Size: CharSize},
	FieldHitpCurr:          {Symbol: "hitp_curr", Size: 2},
	FieldHitpMax:           {Symbol: "hitp_max", Size: 2},
	FieldHitpBegLev:        {Symbol: "hitp_beg_lev", Size: 2},
	FieldGrabTimer:         {Symbol: "grab_timer", Size: 2},
	FieldHoldingSword:      {Symbol: "holding_sword", Size: 2},
	FieldUnitedWithShadow:  {Symbol: "united_with_shadow", Size: 2},
	FieldHaveSword:         {Symbol: "have_sword", Size: 2},
	FieldKidSwordStrike:    {Symbol: "kid_sword_strike", Size: 2},
	FieldPickupObjType:     {Symbol: "pickup_obj_type", Size: 2},
	FieldOffguard:          {Symbol: "offguard", Size: 2},
	FieldGuard:             {Symbol: "Guard", Size: CharSize},
	FieldChar:              {Symbol: "Char", Size: CharSize},
	FieldOpp:               {Symbol: "Opp", Size: CharSize},
	FieldGuardhpCurr:       {Symbol: "guardhp_curr", Size: 2},
	FieldGuardhpMax:        {Symbol: "guardhp_max", Size: 2},
	FieldDemoIndex:         {Symbol: "demo_index", Size: 2},
	FieldDemoTime:          {Symbol: "demo_time", Size: 2},
	FieldCurrGuardColor:    {Symbol: "curr_guard_color", Size: 2},
	FieldGuardNoticeTimer:  {Symbol: "guard_notice_timer", Size: 2},
	FieldGuardSkill:        {Symbol: "guard_skill", Size: 2},
	FieldShadowInitialized: {Symbol: "shadow_initialized", Size: 2},
	FieldGuardRefrac:       {Symbol: "guard_refrac", Size: 2},
	FieldJustblocked:       {Symbol: "justblocked", Size: 2},
	FieldDroppedout:        {Symbol: "droppedout", Size: 2},
	FieldCurrRowCollRoom:   {Symbol: "curr_row_coll_room", Size: CollRowSize},
	FieldCurrRowCollFlags:  {Symbol: "curr_row_coll_flags", Size: CollRowSize},
	FieldBelowRowCollRoom:  {Symbol: "below_row_coll_room", Size: CollRowSize},
	FieldBelowRowCollFlags: {Symbol: "below_row_coll_flags", Size: CollRowSize},
	FieldAboveRowCollRoom:  {Symbol: "above_row_coll_room", Size: CollRowSize},
	FieldAboveRowCollFlags: {Symbol: "above_row_coll_flags", Size: CollRowSize},
	FieldPrevCollisionRow:  {Symbol: "prev_collision_row", Size: 1},
	FieldFlashColor:        {Symbol: "flash_color", Size: 2},
	FieldFlashTime:         {Symbol: "flash_time", Size: 2},
	FieldNeedLevel1Music:   {Symbol: "need_level1_music", Size: 2},
	FieldIsScreaming:       {Symbol: "is_screaming", Size: 2},
	FieldIsFeatherFall:     {Symbol: "is_feather_fall", Size: 2},
	FieldLastLooseSound:    {Symbol: "last_loose_sound", Size: 2},
	FieldRandomSeed:        {Symbol: "random_seed", Size: 4},
	FieldRemMin:            {Symbol: "rem_min", Size: 2},
	FieldRemTick:           {Symbol: "rem_tick", Size: 2},
	FieldControlX:          {Symbol: "control_x", Size: 1},
	FieldControlY:          {Symbol: "control_y", Size: 1},
	FieldControlShift:      {Symbol: "control_shift", Size: 1},
	FieldControlForward:    {Symbol: "control_forward", Size: 1},
	FieldControlBackward:   {Symbol: "control_backward", Size: 1},
	FieldControlUp:         {Symbol: "control_up", Size: 1},
	FieldControlDown:       {Symbol: "control_down", Size: 1},
	FieldControlShift2:     {Symbol: "control_shift2", Size: 1},
	FieldCtrl1Forward:      {Symbol: "ctrl1_forward", Size: 1},
	FieldCtrl1Backward:     {Symbol: "ctrl1_backward", Size: 1},
	FieldCtrl1Up:           {Symbol: "ctrl1_up", Size: 1},
	FieldCtrl1Down:         {Symbol: "ctrl1_down", Size: 1},
	FieldCtrl1Shift2:       {Symbol: "ctrl1_shift2", Size: 1},
	FieldExitRoomTimer:     {Symbol: "exit_room_timer", Size: 2},
	FieldReplayCurrTick:    {Symbol: "replay_curr_tick", Size: 4, Local: true},
	FieldIsGuardNotice:     {Symbol: "is_guard_notice", Size: 2},
	FieldCanGuardSeeKid:    {Symbol: "can_guard_see_kid", Size: 2},

	FieldHitpDelta:           {Symbol: "hitp_delta", Size: 2},
	FieldGuardhpDelta:        {Symbol: "guardhp_delta", Size: 2},
	FieldIsRestartLevel:      {Symbol: "is_restart_level", Size: 2},
	FieldJumpedThroughMirror: {Symbol: "jumped_through_mirror", Size: 2},
	FieldEnableCopyprot:      {Symbol: "enable_copyprot", Size: 1},
	FieldDifferentRoom:       {Symbol: "different_room", Size: 2},
	FieldNextRoom:            {Symbol: "next_room", Size: 2},
}

// Info returns the storage description of a field.
// Panics on an unknown id.
func (id FieldID) Info() FieldInfo {
	if id < 0 || id >= fieldCount {
		panic(fmt.Sprintf("engine: unknown field %d", int(id)))
	}
	return fieldInfo[id]
}

// Size returns the field size in bytes.
func (id FieldID) Size() int {
	return id.Info().Size
}

// String returns the engine symbol name.
func (id FieldID) String() string {
	if id < 0 || id >= fieldCount {
		return fmt.Sprintf("field(%d)", int(id))
	}
	return fieldInfo[id].Symbol
}

// AllFields returns every known field id in declaration order.
func AllFields() []FieldID {
	out := make([]FieldID, 0, fieldCount)
	for id := FieldID(0); id < fieldCount; id++ {
		out = append(out, id)
	}
	return out
}
