package taxonomy

import (
	"strings"

	"github.com/poiesic/partkb/core"
)

// categoryAliases maps squashed free-text category names to categories.
// Keys are lowercase with spaces, hyphens and underscores removed.
var categoryAliases = map[string]core.Category{
	"sensor":       core.CategorySensor,
	"sensors":      core.CategorySensor,
	"sensormodule": core.CategorySensor,
	"sensorpart":   core.CategorySensor,

	"actuator":     core.CategoryActuator,
	"actuators":    core.CategoryActuator,
	"actuatorpart": core.CategoryActuator,
	"driver":       core.CategoryActuator,
	"relay":        core.CategoryActuator,
	"relaymodule":  core.CategoryActuator,
	"motordriver":  core.CategoryActuator,

	"controller":       core.CategoryController,
	"controllerboard":  core.CategoryController,
	"controllerboards": core.CategoryController,
	"microcontroller":  core.CategoryController,
	"board":            core.CategoryController,

	"power":           core.CategoryPower,
	"powersupply":     core.CategoryPower,
	"powersupplies":   core.CategoryPower,
	"powersupplyunit": core.CategoryPower,
	"psu":             core.CategoryPower,
	"adapter":         core.CategoryPower,
	"dcadapter":       core.CategoryPower,

	"mechanical": core.CategoryMechanical,
	"mechanics":  core.CategoryMechanical,

	"tooling":     core.CategoryTooling,
	"tool":        core.CategoryTooling,
	"tools":       core.CategoryTooling,
	"kit":         core.CategoryTooling,
	"kits":        core.CategoryTooling,
	"accessory":   core.CategoryTooling,
	"accessories": core.CategoryTooling,
	"helper":      core.CategoryTooling,
	"breadboard":  core.CategoryTooling,
	"wiring":      core.CategoryTooling,
	"jumperwires": core.CategoryTooling,
}

// NormalizeCategory maps free-text category spellings ("Sensors",
// "Power Supply", "board") onto a catalog category. It reports false when
// raw is empty or unrecognized.
func NormalizeCategory(raw string) (core.Category, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	if key == "" {
		return "", false
	}
	c, ok := categoryAliases[key]
	return c, ok
}
