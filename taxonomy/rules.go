package taxonomy

import "github.com/poiesic/partkb/core"

// Rule assigns a (category, kind) pair when any of its keywords occurs in a
// part's search text. Keywords are lowercase substrings.
type Rule struct {
	Category core.Category `yaml:"category"`
	Kind     string        `yaml:"kind"`
	Keywords []string      `yaml:"keywords"`
}

// DefaultRules is the built-in detection table. Order matters: the first
// matching rule wins, so specific boards precede generic families and
// "rgb led" precedes "led".
var DefaultRules = []Rule{
	// Controllers
	{core.CategoryController, "esp32", []string{"esp32", "esp-32", "wroom"}},
	{core.CategoryController, "esp8266", []string{"esp8266", "nodemcu", "d1 mini"}},
	{core.CategoryController, "arduino", []string{"arduino", "atmega", "uno", "nano", "mega", "pro mini", "lilypad"}},
	{core.CategoryController, "rpi", []string{"raspberry pi", "rpi", "zero w", "compute module"}},
	{core.CategoryController, "microbit", []string{"micro:bit", "microbit"}},
	{core.CategoryController, "teensy", []string{"teensy"}},
	{core.CategoryController, "stm32", []string{"stm32"}},
	{core.CategoryController, "feather", []string{"feather"}},
	{core.CategoryController, "particle", []string{"particle", "photon", "electron", "argon", "boron"}},

	// Sensors
	{core.CategorySensor, "accelerometer", []string{"accelerometer", "adxl", "lis3", "mma7", "bma180"}},
	{core.CategorySensor, "gyro", []string{"gyro", "itg-", "l3g"}},
	{core.CategorySensor, "imu", []string{"imu", "mpu-", "9-dof", "6-dof", "lsm9ds"}},
	{core.CategorySensor, "magnetometer", []string{"magnetometer", "mag", "compass", "hmc", "mag3110"}},
	{core.CategorySensor, "temp_humidity", []string{"temp", "humidity", "dht11", "dht22", "bme280", "bmp180", "sht1", "sht2", "si70", "hih", "tmp36", "tmp102"}},
	{core.CategorySensor, "gas", []string{"gas sensor", "mq-", "co2", "ccs811", "sgp30", "air quality"}},
	{core.CategorySensor, "light", []string{"light sensor", "lux", "tsl25", "ldr", "photocell", "photoresistor", "ambient light"}},
	{core.CategorySensor, "color", []string{"color sensor", "tcs3200", "tcs34725"}},
	{core.CategorySensor, "distance", []string{"distance", "ultrasonic", "hc-sr04", "sonar", "range finder", "lidar", "vl53l0x", "sharp ir"}},
	{core.CategorySensor, "motion", []string{"motion", "pir", "human presence", "hc-sr501"}},
	{core.CategorySensor, "flex_force", []string{"flex sensor", "force sensitive", "fsr"}},
	{core.CategorySensor, "current", []string{"current sensor", "acs712", "ina219", "ina226"}},
	{core.CategorySensor, "gps", []string{"gps", "gnss", "ublox", "venus", "copernicus"}},
	{core.CategorySensor, "rtc", []string{"rtc", "real time clock", "ds1307", "ds3231", "pcf8523"}},
	{core.CategorySensor, "touch", []string{"capacitive touch", "mpr121", "touch sensor"}},
	{core.CategorySensor, "microphone", []string{"microphone", "electret", "mems mic"}},

	// Actuators
	{core.CategoryActuator, "motor_driver", []string{"motor driver", "h-bridge", "l298", "tb6612", "drv88", "easydriver", "stepper driver"}},
	{core.CategoryActuator, "motor_servo", []string{"servo"}},
	{core.CategoryActuator, "motor_stepper", []string{"stepper motor"}},
	{core.CategoryActuator, "motor_dc", []string{"dc motor", "gearbox", "vibration motor"}},
	{core.CategoryActuator, "display_lcd", []string{"lcd", "liquid crystal"}},
	{core.CategoryActuator, "display_oled", []string{"oled", "ssd1306"}},
	{core.CategoryActuator, "display_epaper", []string{"e-paper", "epaper", "e-ink"}},
	{core.CategoryActuator, "display_segment", []string{"segment display", "7-segment", "matrix led"}},
	{core.CategoryActuator, "led_rgb", []string{"rgb led", "neopixel", "ws2812", "dotstar"}},
	{core.CategoryActuator, "led", []string{"led", "light emitting diode"}},
	{core.CategoryActuator, "buzzer", []string{"buzzer", "speaker", "piezo"}},
	{core.CategoryActuator, "relay", []string{"relay"}},
	{core.CategoryActuator, "pump", []string{"pump", "solenoid"}},

	// Power
	{core.CategoryPower, "battery", []string{"battery", "lipo", "li-ion", "coin cell", "aa holder", "aaa holder"}},
	{core.CategoryPower, "regulator", []string{"regulator", "buck", "boost", "converter", "ldo", "lm7805", "voltage regulator"}},
	{core.CategoryPower, "charger", []string{"charger", "lipoly", "mcp73831"}},
	{core.CategoryPower, "adapter", []string{"adapter", "power supply", "wall wart"}},
	{core.CategoryPower, "solar", []string{"solar"}},

	// Mechanical
	{core.CategoryMechanical, "connector", []string{"header", "terminal block", "connector", "jack", "socket", "jst"}},
	{core.CategoryMechanical, "mounting", []string{"standoff", "screw", "bracket", "mount"}},
	{core.CategoryMechanical, "switch", []string{"switch", "button", "dip switch", "tactile"}},

	// Tooling and passives
	{core.CategoryTooling, "breadboard", []string{"breadboard", "protoboard"}},
	{core.CategoryTooling, "wire", []string{"jumper wire", "wire"}},
	{core.CategoryTooling, "resistor", []string{"resistor"}},
	{core.CategoryTooling, "capacitor", []string{"capacitor", "cap ceramic", "cap electrolytic"}},
	{core.CategoryTooling, "diode", []string{"diode", "zener", "rectifier"}},
	{core.CategoryTooling, "transistor", []string{"transistor", "mosfet", "bjt", "npn", "pnp"}},
	{core.CategoryTooling, "ic", []string{"ic", "chip", "logic", "eeprom", "flash", "sram", "multiplexer", "shifter"}},
	{core.CategoryTooling, "breakout", []string{"breakout", "adapter board"}},
}
