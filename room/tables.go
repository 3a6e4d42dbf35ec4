package room

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownEntity = errors.New("unknown entity name")
	ErrUnknownItem   = errors.New("unknown item")
	ErrUnknownEvent  = errors.New("unknown event")
)

var entityNames = map[uint8]string{
	0x00: "ARROW",
	0x01: "BOOMERANG",
	0x02: "BOMB",
	0x03: "HOOKSHOT_CHAIN",
	0x04: "HOOKSHOT_HIT",
	0x05: "LIFTABLE_ROCK",
	0x06: "PUSHED_BLOCK",
	0x07: "CHEST_WITH_ITEM",
	0x08: "MAGIC_POWDER_SPRINKLE",
	0x09: "OCTOROK",
	0x0A: "OCTOROK_ROCK",
	0x0B: "MOBLIN",
	0x0C: "MOBLIN_ARROW",
	0x0D: "TEKTITE",
	0x0E: "LEEVER",
	0x0F: "ARMOS_STATUE",
	0x10: "HIDING_GHINI",
	0x11: "GIANT_GHINI",
	0x12: "GHINI",
	0x13: "BROKEN_HEART_CONTAINER",
	0x14: "MOBLIN_SWORD",
	0x15: "ANTI_FAIRY",
	0x16: "SPARK_COUNTER_CLOCKWISE",
	0x17: "SPARK_CLOCKWISE",
	0x18: "POLS_VOICE",
	0x19: "KEESE",
	0x1A: "STALFOS_AGGRESSIVE",
	0x1B: "GEL",
	0x1C: "MINI_GEL",
	0x1E: "STALFOS_EVASIVE",
	0x1F: "GIBDO",
	0x20: "HARDHAT_BEETLE",
	0x21: "WIZROBE",
	0x22: "WIZROBE_PROJECTILE",
	0x23: "LIKE_LIKE",
	0x24: "IRON_MASK",
	0x27: "SPIKE_TRAP",
	0x28: "MIMIC",
	0x29: "MINI_MOLDORM",
	0x2A: "LASER",
	0x2C: "SPIKED_BEETLE",
	0x2D: "DROPPABLE_HEART",
	0x2E: "DROPPABLE_RUPEE",
	0x2F: "DROPPABLE_FAIRY",
	0x30: "KEY_DROP_POINT",
	0x31: "SWORD",
	0x35: "HEART_PIECE",
	0x3D: "DROPPABLE_SECRET_SEASHELL",
	0x41: "OWL_EVENT",
	0x55: "BOMBABLE_WALL",
	0x5A: "FACADE",
	0x61: "WARP",
	0x6D: "BOWWOW",
	0x7F: "OWL_STATUE",
	0x87: "MOLDORM",
	0x8E: "CUE_BALL",
	0x92: "SMASHER",
	0x9C: "STAR",
	0xA9: "SHOPKEEPER",
	0xB0: "PINCER",
	0xBC: "GRIM_CREEPER",
	0xC1: "HELPER_FAIRY",
	0xE4: "GENIE",
	0xF8: "ZOMBIE",
}

// EntityName returns the symbolic name of an entity kind. Kinds without a
// known name get a stable ENTITY_XX name so they still round-trip.
func EntityName(kind uint8) string {
	if n, ok := entityNames[kind]; ok {
		return n
	}
	return fmt.Sprintf("ENTITY_%02X", kind)
}

var entityKinds = func() map[string]uint8 {
	m := make(map[string]uint8, 256)
	for k := 0; k < 256; k++ {
		m[EntityName(uint8(k))] = uint8(k)
	}
	return m
}()

func EntityKind(name string) (uint8, error) {
	if k, ok := entityKinds[name]; ok {
		return k, nil
	}
	return 0, errors.Wrapf(ErrUnknownEntity, "%q", name)
}

type item struct {
	Name string
	Code uint8
}

// chestItems is ordered; when several names share a code the first wins.
var chestItems = func() []item {
	items := []item{
		{"POWER_BRACELET", 0x00},
		{"SHIELD", 0x01},
		{"BOW", 0x02},
		{"HOOKSHOT", 0x03},
		{"MAGIC_ROD", 0x04},
		{"PEGASUS_BOOTS", 0x05},
		{"OCARINA", 0x06},
		{"FEATHER", 0x07},
		{"SHOVEL", 0x08},
		{"MAGIC_POWDER", 0x09},
		{"BOMB", 0x0A},
		{"SWORD", 0x0B},
		{"FLIPPERS", 0x0C},
		{"MAGNIFYING_LENS", 0x0D},
		{"MEDICINE", 0x10},
		{"TAIL_KEY", 0x11},
		{"ANGLER_KEY", 0x12},
		{"FACE_KEY", 0x13},
		{"BIRD_KEY", 0x14},
		{"GOLD_LEAF", 0x15},
		{"RUPEES_50", 0x1B},
		{"RUPEES_20", 0x1C},
		{"RUPEES_100", 0x1D},
		{"RUPEES_200", 0x1E},
		{"RUPEES_500", 0x1F},
		{"SEASHELL", 0x20},
		{"MESSAGE", 0x21},
		{"GEL", 0x22},
	}
	groups := []struct {
		prefix string
		base   uint8
	}{
		{"KEY", 0x23},
		{"NIGHTMARE_KEY", 0x2C},
		{"MAP", 0x35},
		{"COMPASS", 0x3E},
		{"STONE_BEAK", 0x47},
	}
	for _, g := range groups {
		for n := uint8(0); n < 9; n++ {
			items = append(items, item{g.prefix + strconv.Itoa(int(n)+1), g.base + n})
		}
	}
	items = append(items,
		item{"HEART_PIECE", 0x80},
		item{"BOWWOW", 0x81},
		item{"ARROWS_10", 0x82},
		item{"SINGLE_ARROW", 0x83},
		item{"MAX_POWDER_UPGRADE", 0x84},
		item{"MAX_BOMBS_UPGRADE", 0x85},
		item{"MAX_ARROWS_UPGRADE", 0x86},
		item{"RED_TUNIC", 0x87},
		item{"BLUE_TUNIC", 0x88},
		item{"HEART_CONTAINER", 0x89},
		item{"BAD_HEART_CONTAINER", 0x8A},
		item{"TOADSTOOL", 0x8B},
		item{"SONG1", 0x8C},
		item{"SONG2", 0x8D},
		item{"SONG3", 0x8E},
	)
	for n := uint8(0); n < 8; n++ {
		items = append(items, item{"INSTRUMENT" + strconv.Itoa(int(n)+1), 0x8F + n})
	}
	return items
}()

func ItemName(code uint8) (string, error) {
	for _, it := range chestItems {
		if it.Code == code {
			return it.Name, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownItem, "code $%02X", code)
}

func ItemCode(name string) (uint8, error) {
	for _, it := range chestItems {
		if it.Name == name {
			return it.Code, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownItem, "%q", name)
}

var EventTriggers = [...]string{
	"NONE",
	"KILL_ALL",
	"PUSH_BLOCK",
	"BUTTON",
	"UNKNOWN4",
	"TORCHES",
	"KILL_ORDER",
	"PUSH_BLOCKS",
	"KILL_SPECIALS",
	"SOLVE_TILE_PUZZLE",
	"KILL_SIDESCROLL_BOSS",
	"THROW_AT_DOOR",
	"HORSE_HEADS",
	"THROW_AT_CHEST",
	"FILL_LAVA",
	"SHOOT_EYE_WITH_BOW",
	"AWNSER_TUNICS",
}

var EventActions = [...]string{
	"NONE",
	"OPEN_DOORS",
	"KILL_ENEMIES",
	"SHOW_CHEST",
	"DROP_KEY",
	"SHOW_STAIRS",
	"CLEAR_MIDBOSS",
	"DROP_FAIRY",
}

// EventNames splits an event byte into trigger (low 5 bits) and action.
func EventNames(event uint8) (trigger, action string, err error) {
	t := int(event & 0x1F)
	if t >= len(EventTriggers) {
		return "", "", errors.Wrapf(ErrUnknownEvent, "trigger %d", t)
	}
	return EventTriggers[t], EventActions[event>>5], nil
}

func EventByte(trigger, action string) (uint8, error) {
	t, a := -1, -1
	for i, n := range EventTriggers {
		if strings.EqualFold(n, trigger) {
			t = i
			break
		}
	}
	for i, n := range EventActions {
		if strings.EqualFold(n, action) {
			a = i
			break
		}
	}
	if t < 0 {
		return 0, errors.Wrapf(ErrUnknownEvent, "trigger %q", trigger)
	}
	if a < 0 {
		return 0, errors.Wrapf(ErrUnknownEvent, "action %q", action)
	}
	return uint8(t) | uint8(a)<<5, nil
}
