package game

import "strings"

var knownMaterials = map[string]bool{
	"STONE": true, "ARROW": true, "BOW": true, "CROSSBOW": true, "SHIELD": true,
	"WOODEN_SWORD": true, "STONE_SWORD": true, "IRON_SWORD": true, "GOLDEN_SWORD": true, "DIAMOND_SWORD": true, "NETHERITE_SWORD": true,
	"WOODEN_AXE": true, "STONE_AXE": true, "IRON_AXE": true, "DIAMOND_AXE": true,
	"LEATHER_HELMET": true, "LEATHER_CHESTPLATE": true, "LEATHER_LEGGINGS": true, "LEATHER_BOOTS": true,
	"IRON_HELMET": true, "IRON_CHESTPLATE": true, "IRON_LEGGINGS": true, "IRON_BOOTS": true,
	"DIAMOND_HELMET": true, "DIAMOND_CHESTPLATE": true, "DIAMOND_LEGGINGS": true, "DIAMOND_BOOTS": true,
	"GOLDEN_APPLE": true, "ENCHANTED_GOLDEN_APPLE": true, "APPLE": true, "BREAD": true, "COOKED_BEEF": true,
	"SNOWBALL": true, "RED_DYE": true, "ENDER_PEARL": true, "TNT": true, "POTION": true, "SPLASH_POTION": true,
}

// legacyMaterials maps older material names onto their current ones.
var legacyMaterials = map[string]string{
	"WOOD_SWORD": "WOODEN_SWORD",
	"GOLD_SWORD": "GOLDEN_SWORD",
	"SNOW_BALL":  "SNOWBALL",
	"INK_SACK":   "RED_DYE",
}

// ResolveMaterial normalizes a configured material name. ok is false for
// names the game does not know.
func ResolveMaterial(name string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if modern, ok := legacyMaterials[key]; ok {
		key = modern
	}
	if !knownMaterials[key] {
		return "", false
	}
	return key, true
}
