//go:build darwin || linux

package sdlpop

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/move"
	"github.com/vovakirdan/frameforge/internal/registry"
)

// Game defaults the library reads from its custom options block.
const (
	startMinutes       = 60
	startTicks         = 719
	startHitp          = 3
	introMusicInitial  = 33
	introMusicRestart  = 4
	introMusicLevel    = 1
	haveSwordFromLevel = 2
	baseFPS            = 60
)

// Native constants.
const (
	maxPath        = 256 // POP_MAX_PATH
	numScancodes   = 512
	scancodeRight  = 79
	scancodeLeft   = 80
	scancodeDown   = 81
	scancodeUp     = 82
	scancodeRShift = 229
	timer1         = 1
	charidGuard    = 2
	dirNone        = 0x56
	chtabSword     = 0
	chtabFlame     = 1
)

// ErrNoLibrary is returned when no library path is configured.
var ErrNoLibrary = errors.New("sdlpop: no engine library configured")

// argv handed to the library. Package-level so the memory never moves.
var (
	progName = [...]byte{'p', 'r', 'i', 'n', 'c', 'e', 0}
	progArgv = [1]uintptr{}
)

// natives are the library functions the binding calls.
type natives struct {
	timers        func()
	playFrame     func()
	checkMirror   func()
	loadRoomLinks func()

	loadLevSpr                func(level int32)
	loadKidSprite             func()
	loadLevel                 func()
	posGuards                 func()
	clearCollRooms            func()
	clearSavedCtrl            func()
	doStartpos                func()
	findStartLevelDoor        func()
	checkSoundPlaying         func() int32
	doPaused                  func() int32
	idle                      func()
	stopSounds                func()
	restoreRoomAfterQuickLoad func()
	drawLevelFirst            func()
	showCopyprot              func(where int32)
	resetTimer                func(timer int32)
	setTimerLength            func(timer, length int32)

	initCopyprot          func()
	loadGlobalOptions     func()
	checkModParam         func()
	turnSoundOnOff        func(on byte)
	loadModOptions        func()
	applySeqtblPatches    func()
	openDat               func(file string, optional int32) uintptr
	parseGrmode           func() int32
	initTimer             func(freq int32)
	parseCmdlineSound     func()
	setHcPal              func()
	rectSthg              func(surface, rect uintptr) uintptr
	showLoading           func()
	setJoyMode            func()
	initCopyprotDialog    func()
	loadFromOpendatsAlloc func(resource int32, ext string, result, size uintptr) uintptr
	setPal                func(index, r, g, b, vsync int32)
	loadSpritesFromFile   func(resource, paletteBits, quitOnError int32) uintptr
	closeDat              func(dat uintptr)
	loadAllSounds         func()
	hofRead               func()
	releaseTitleImages    func()
	freeOptsndChtab       func()
	makeOffscreenBuffer   func(rect uintptr) uintptr
}

func (n *natives) table() []struct {
	fn   any
	name string
} {
	return []struct {
		fn   any
		name string
	}{
		{&n.timers, "timers"},
		{&n.playFrame, "play_frame"},
		{&n.checkMirror, "check_mirror"},
		{&n.loadRoomLinks, "load_room_links"},
		{&n.loadLevSpr, "load_lev_spr"},
		{&n.loadKidSprite, "load_kid_sprite"},
		{&n.loadLevel, "load_level"},
		{&n.posGuards, "pos_guards"},
		{&n.clearCollRooms, "clear_coll_rooms"},
		{&n.clearSavedCtrl, "clear_saved_ctrl"},
		{&n.doStartpos, "do_startpos"},
		{&n.findStartLevelDoor, "find_start_level_door"},
		{&n.checkSoundPlaying, "check_sound_playing"},
		{&n.doPaused, "do_paused"},
		{&n.idle, "idle"},
		{&n.stopSounds, "stop_sounds"},
		{&n.restoreRoomAfterQuickLoad, "restore_room_after_quick_load"},
		{&n.drawLevelFirst, "draw_level_first"},
		{&n.showCopyprot, "show_copyprot"},
		{&n.resetTimer, "reset_timer"},
		{&n.setTimerLength, "set_timer_length"},
		{&n.initCopyprot, "init_copyprot"},
		{&n.loadGlobalOptions, "load_global_options"},
		{&n.checkModParam, "check_mod_param"},
		{&n.turnSoundOnOff, "turn_sound_on_off"},
		{&n.loadModOptions, "load_mod_options"},
		{&n.applySeqtblPatches, "apply_seqtbl_patches"},
		{&n.openDat, "open_dat"},
		{&n.parseGrmode, "parse_grmode"},
		{&n.initTimer, "init_timer"},
		{&n.parseCmdlineSound, "parse_cmdline_sound"},
		{&n.setHcPal, "set_hc_pal"},
		{&n.rectSthg, "rect_sthg"},
		{&n.showLoading, "show_loading"},
		{&n.setJoyMode, "set_joy_mode"},
		{&n.initCopyprotDialog, "init_copyprot_dialog"},
		{&n.loadFromOpendatsAlloc, "load_from_opendats_alloc"},
		{&n.setPal, "set_pal"},
		{&n.loadSpritesFromFile, "load_sprites_from_file"},
		{&n.closeDat, "close_dat"},
		{&n.loadAllSounds, "load_all_sounds"},
		{&n.hofRead, "hof_read"},
		{&n.releaseTitleImages, "release_title_images"},
		{&n.freeOptsndChtab, "free_optsnd_chtab"},
		{&n.makeOffscreenBuffer, "make_offscreen_buffer"},
	}
}

// Engine is one native engine instance backed by a private library copy.
type Engine struct {
	lib    *library
	fn     natives
	fields map[engine.FieldID][]byte

	// Library globals used during bring-up only.
	vars map[string]uintptr

	keys []byte

	// Tooling-owned fields.
	quickControl   [9]byte
	replayCurrTick [4]byte

	logger *log.Logger
}

// New loads a private copy of the library at opts.Library and brings the
// game up at the start of level 1.
func New(opts registry.Options) (*Engine, error) {
	if opts.Library == "" {
		return nil, ErrNoLibrary
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	lib, err := openLibrary(opts.Library)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		lib:    lib,
		fields: make(map[engine.FieldID][]byte),
		vars:   make(map[string]uintptr),
		logger: logger.WithPrefix("sdlpop"),
	}
	if err := e.resolve(); err != nil {
		lib.close()
		return nil, err
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	levels := opts.LevelsFile
	if levels == "" {
		levels = "LEVELS.DAT"
	}
	if len(root) >= maxPath || len(levels) >= maxPath {
		lib.close()
		return nil, fmt.Errorf("sdlpop: path too long: %s", root)
	}

	e.logger.Debug("initializing engine", "library", opts.Library, "root", root, "levels", levels)
	e.initialize(root, levels)
	if opts.Seed != 0 {
		e.SetSeed(opts.Seed)
	}
	return e, nil
}

func init() {
	registry.Register("sdlpop", "Native SDLPoP engine library", func(opts registry.Options) (engine.Engine, error) {
		e, err := New(opts)
		if err != nil {
			return nil, err
		}
		return e, nil
	})
}

var bringUpVars = []string{
	"key_states", "exe_dir", "found_exe_dir", "levels_file", "is_validate_mode",
	"g_argc", "g_argv", "is_blind_mode", "enable_quicksave_penalty", "need_drects",
	"dathandle", "current_target_surface", "onscreen_surface_", "screen_rect",
	"cheats_enabled", "draw_mode", "demo_mode", "play_demo_level", "doorlink1_ad",
	"doorlink2_ad", "guard_palettes", "level_var_palettes", "chtab_addrs",
	"start_level", "offscreen_surface", "rect_top", "text_time_remaining",
	"text_time_total", "is_show_time", "resurrect_time", "next_sound",
}

func (e *Engine) resolve() error {
	for _, id := range engine.AllFields() {
		info := id.Info()
		if info.Local {
			continue
		}
		addr, err := e.lib.symbol(info.Symbol)
		if err != nil {
			return err
		}
		e.fields[id] = bytesAt(addr, info.Size)
	}
	e.fields[engine.FieldQuickControl] = e.quickControl[:]
	e.fields[engine.FieldReplayCurrTick] = e.replayCurrTick[:]

	for _, name := range bringUpVars {
		addr, err := e.lib.symbol(name)
		if err != nil {
			return err
		}
		e.vars[name] = addr
	}
	e.keys = bytesAt(e.vars["key_states"], numScancodes)

	for _, f := range e.fn.table() {
		if err := e.lib.bind(f.fn, f.name); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) putWord(name string, v uint16) {
	binary.LittleEndian.PutUint16(bytesAt(e.vars[name], 2), v)
}

func (e *Engine) putInt32(name string, v int32) {
	binary.LittleEndian.PutUint32(bytesAt(e.vars[name], 4), uint32(v))
}

func (e *Engine) putByte(name string, v byte) {
	bytesAt(e.vars[name], 1)[0] = v
}

func (e *Engine) putPtr(name string, v uintptr) {
	*(*uintptr)(unsafe.Pointer(e.vars[name])) = v
}

func (e *Engine) putString(name, s string) {
	buf := bytesAt(e.vars[name], maxPath)
	clear(buf)
	copy(buf, s)
}

func (e *Engine) initialize(root, levels string) {
	copy(e.quickControl[:], "........")

	e.putString("exe_dir", root)
	e.putByte("found_exe_dir", 1)
	e.putString("levels_file", levels)

	e.putByte("is_validate_mode", 1)
	progArgv[0] = uintptr(unsafe.Pointer(&progName[0]))
	e.putInt32("g_argc", 1)
	e.putPtr("g_argv", uintptr(unsafe.Pointer(&progArgv[0])))

	e.fn.initCopyprot()
	e.fn.loadGlobalOptions()
	e.fn.checkModParam()
	e.fn.turnSoundOnOff(1)
	e.fn.loadModOptions()

	e.putWord("is_blind_mode", 0)
	e.putByte("enable_quicksave_penalty", 0)
	e.putWord("need_drects", 1)

	e.fn.applySeqtblPatches()
	dat := e.fn.openDat("PRINCE.DAT", 0)
	e.putPtr("dathandle", dat)
	e.fn.parseGrmode()
	e.fn.initTimer(baseFPS)
	e.fn.parseCmdlineSound()
	e.fn.setHcPal()

	onscreen := *(*uintptr)(unsafe.Pointer(e.vars["onscreen_surface_"]))
	e.putPtr("current_target_surface", e.fn.rectSthg(onscreen, e.vars["screen_rect"]))
	e.fn.showLoading()
	e.fn.setJoyMode()

	e.putWord("cheats_enabled", 0)
	e.putWord("draw_mode", 0)
	e.putWord("demo_mode", 0)
	e.fn.initCopyprotDialog()
	e.putInt32("play_demo_level", 0)

	levelAddr := uintptr(unsafe.Pointer(&e.fields[engine.FieldLevel][0]))
	e.putPtr("doorlink1_ad", levelAddr+engine.LevelDoorlinks1Offset)
	e.putPtr("doorlink2_ad", levelAddr+engine.LevelDoorlinks2Offset)
	e.putPtr("guard_palettes", e.fn.loadFromOpendatsAlloc(10, "bin", 0, 0))
	e.fn.setPal(12, 0x38, 0x00, 0x0C, 1)
	e.fn.setPal(6, 0x30, 0x26, 0x14, 0)
	e.putPtr("level_var_palettes", e.fn.loadFromOpendatsAlloc(20, "bin", 0, 0))

	chtabs := e.vars["chtab_addrs"]
	ptrSize := unsafe.Sizeof(uintptr(0))
	*(*uintptr)(unsafe.Pointer(chtabs + chtabSword*ptrSize)) = e.fn.loadSpritesFromFile(700, 1<<2, 1)
	*(*uintptr)(unsafe.Pointer(chtabs + chtabFlame*ptrSize)) = e.fn.loadSpritesFromFile(150, 1<<3, 1)
	e.fn.closeDat(dat)

	e.fn.loadAllSounds()
	e.fn.hofRead()
	e.fn.releaseTitleImages()
	e.fn.freeOptsndChtab()
	e.putWord("start_level", 1)

	e.putPtr("offscreen_surface", e.fn.makeOffscreenBuffer(e.vars["rect_top"]))
	e.putWord("text_time_remaining", 0)
	e.putWord("text_time_total", 0)
	e.putWord("is_show_time", 1)
	engine.SetWord(e, engine.FieldCheckpoint, 0)
	engine.SetWord(e, engine.FieldUpsideDown, 0)
	e.putWord("resurrect_time", 0)
	engine.SetShort(e, engine.FieldRemMin, startMinutes)
	engine.SetWord(e, engine.FieldRemTick, startTicks)
	engine.SetWord(e, engine.FieldHitpBegLev, startHitp)
	engine.SetWord(e, engine.FieldCurrentLevel, 0)
	e.StartLevel(1)
	engine.SetWord(e, engine.FieldNeedLevel1Music, introMusicInitial)
}

// Field implements engine.Engine.
func (e *Engine) Field(id engine.FieldID) []byte {
	b, ok := e.fields[id]
	if !ok {
		panic(fmt.Sprintf("sdlpop: field %v not available", id))
	}
	return b
}

// Timers implements engine.Engine.
func (e *Engine) Timers() { e.fn.timers() }

// PlayFrame implements engine.Engine.
func (e *Engine) PlayFrame() { e.fn.playFrame() }

// CheckMirror implements engine.Engine.
func (e *Engine) CheckMirror() { e.fn.checkMirror() }

// LoadRoomLinks implements engine.Engine.
func (e *Engine) LoadRoomLinks() { e.fn.loadRoomLinks() }

// SetSeed implements engine.Engine.
func (e *Engine) SetSeed(seed uint32) {
	engine.SetDword(e, engine.FieldRandomSeed, seed)
}

// ApplyInput implements engine.Engine.
func (e *Engine) ApplyInput(in move.Input) {
	e.keys[scancodeUp] = boolByte(in.Up)
	e.keys[scancodeDown] = boolByte(in.Down)
	e.keys[scancodeLeft] = boolByte(in.Left)
	e.keys[scancodeRight] = boolByte(in.Right)
	e.keys[scancodeRShift] = boolByte(in.Shift)
	if in.Restart {
		engine.SetWord(e, engine.FieldIsRestartLevel, 1)
	}
}

// StartLevel implements engine.Engine.
func (e *Engine) StartLevel(level uint16) {
	if level != engine.Word(e, engine.FieldCurrentLevel) {
		e.fn.loadLevSpr(int32(level))
	}
	e.fn.loadKidSprite()
	e.fn.loadLevel()
	e.fn.posGuards()
	e.fn.clearCollRooms()
	e.fn.clearSavedCtrl()

	engine.SetWord(e, engine.FieldDrawnRoom, 0)
	engine.SetShort(e, engine.FieldMobsCount, 0)
	engine.SetShort(e, engine.FieldTrobsCount, 0)
	binary.LittleEndian.PutUint16(bytesAt(e.vars["next_sound"], 2), 0xFFFF)
	for _, id := range []engine.FieldID{
		engine.FieldHoldingSword, engine.FieldGrabTimer, engine.FieldCanGuardSeeKid,
		engine.FieldUnitedWithShadow, engine.FieldFlashTime, engine.FieldLevelDoorOpen,
		engine.FieldDemoIndex, engine.FieldDemoTime, engine.FieldGuardhpCurr,
		engine.FieldHitpDelta,
	} {
		clear(e.Field(id))
	}
	guard := engine.CharOf(e, engine.FieldGuard)
	guard.CharID = charidGuard
	guard.Direction = dirNone
	engine.SetChar(e, engine.FieldGuard, guard)

	e.fn.doStartpos()
	haveSword := level == 0 || level >= haveSwordFromLevel
	engine.SetWord(e, engine.FieldHaveSword, boolWord(haveSword))
	e.fn.findStartLevelDoor()

	for e.fn.checkSoundPlaying() != 0 && e.fn.doPaused() == 0 {
		e.fn.idle()
	}
	e.fn.stopSounds()
	e.fn.restoreRoomAfterQuickLoad()
	e.fn.drawLevelFirst()
	e.fn.showCopyprot(0)
	engine.SetByte(e, engine.FieldEnableCopyprot, 1)
	e.fn.resetTimer(timer1)
	e.fn.setTimerLength(timer1, 12)

	if engine.Word(e, engine.FieldNeedLevel1Music) != 0 && engine.Word(e, engine.FieldCurrentLevel) == introMusicLevel {
		engine.SetWord(e, engine.FieldNeedLevel1Music, introMusicRestart)
	}
}

// Close implements engine.Engine. The instance must not be used afterwards.
func (e *Engine) Close() error {
	if e.lib == nil {
		return nil
	}
	err := e.lib.close()
	e.lib = nil
	e.fields = nil
	e.keys = nil
	return err
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func boolWord(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
