package ingestion

import (
	"strings"

	"github.com/poiesic/partkb/core"
)

// standardParts is the built-in library of well-known parts. It seeds new
// catalogs and fills gaps in sparse records.
var standardParts = []core.RawRecord{
	// Controllers
	{Label: "Arduino Uno R3", Manufacturer: "Arduino", MPN: "A000066", Category: "controller", Kind: "arduino", VccMin: "7", VccMax: "12", LogicLevel: "5.0", Iface: "UART|I2C|SPI|ADC|GPIO", Notes: "The standard starter board"},
	{Label: "Arduino Nano", Manufacturer: "Arduino", MPN: "A000005", Category: "controller", Kind: "arduino", VccMin: "7", VccMax: "12", LogicLevel: "5.0", Iface: "UART|I2C|SPI|ADC|GPIO", Notes: "Breadboard friendly"},
	{Label: "Arduino Mega 2560", Manufacturer: "Arduino", MPN: "A000067", Category: "controller", Kind: "arduino", VccMin: "7", VccMax: "12", LogicLevel: "5.0", Iface: "UART|I2C|SPI|ADC|GPIO", Notes: "Many GPIOs"},
	{Label: "ESP32 DevKitC", Manufacturer: "Espressif", MPN: "ESP32-DevKitC", Category: "controller", Kind: "esp32", VccMin: "4.5", VccMax: "9", LogicLevel: "3.3", Iface: "UART|I2C|SPI|I2S|ADC|DAC|GPIO", Notes: "WiFi + BT LE"},
	{Label: "ESP8266 NodeMCU", Manufacturer: "Generic", MPN: "NodeMCU v2", Category: "controller", Kind: "esp8266", VccMin: "4.5", VccMax: "9", LogicLevel: "3.3", Iface: "UART|I2C|SPI|ADC|GPIO", Notes: "Cheap WiFi"},
	{Label: "Raspberry Pi 4 Model B", Manufacturer: "Raspberry Pi", MPN: "RPI4-MODBP", Category: "controller", Kind: "sbc", VccMin: "5.0", VccMax: "5.25", LogicLevel: "3.3", Iface: "UART|I2C|SPI|GPIO|HDMI|USB", Notes: "Linux SBC"},
	{Label: "Raspberry Pi Pico", Manufacturer: "Raspberry Pi", MPN: "SC0915", Category: "controller", Kind: "microcontroller", VccMin: "1.8", VccMax: "5.5", LogicLevel: "3.3", Iface: "UART|I2C|SPI|ADC|GPIO", Notes: "RP2040 Dual Core M0+"},
	{Label: "Raspberry Pi Pico W", Manufacturer: "Raspberry Pi", MPN: "SC0918", Category: "controller", Kind: "microcontroller", VccMin: "1.8", VccMax: "5.5", LogicLevel: "3.3", Iface: "UART|I2C|SPI|ADC|GPIO", Notes: "RP2040 with WiFi"},
	{Label: "Teensy 4.0", Manufacturer: "PJRC", MPN: "TEENSY40", Category: "controller", Kind: "microcontroller", VccMin: "3.6", VccMax: "5.5", LogicLevel: "3.3", Iface: "UART|I2C|SPI|CAN|I2S", Notes: "Fastest microcontroller"},
	{Label: "STM32 Blue Pill", Manufacturer: "Generic", MPN: "STM32F103C8T6", Category: "controller", Kind: "microcontroller", VccMin: "3.3", VccMax: "5.0", LogicLevel: "3.3", Iface: "UART|I2C|SPI|CAN|ADC", Notes: "Cheap ARM Cortex-M3"},
	{Label: "Seeeduino XIAO", Manufacturer: "Seeed Studio", MPN: "102010328", Category: "controller", Kind: "microcontroller", VccMin: "3.3", VccMax: "5.0", LogicLevel: "3.3", Iface: "UART|I2C|SPI|ADC|DAC", Notes: "Tiny SAMD21"},

	// Environmental sensors
	{Label: "DHT11 Temp/Humidity", Manufacturer: "Generic", MPN: "DHT11", Category: "sensor", Kind: "temp_humidity", ObservedProperty: "temperature|humidity", FeatureOfInterest: "room_air", VccMin: "3.5", VccMax: "5.5", Iface: "Digital", AccuracyPct: "5", RangeMin: "0", RangeMax: "50", Units: "degC"},
	{Label: "DHT22 (AM2302)", Manufacturer: "Generic", MPN: "DHT22", Category: "sensor", Kind: "temp_humidity", ObservedProperty: "temperature|humidity", FeatureOfInterest: "room_air", VccMin: "3.3", VccMax: "6.0", Iface: "Digital", AccuracyPct: "2", RangeMin: "-40", RangeMax: "80", Units: "degC"},
	{Label: "BME280 Breakout", Manufacturer: "Bosch/Adafruit", MPN: "BME280", Category: "sensor", Kind: "environment", ObservedProperty: "temperature|humidity|pressure", FeatureOfInterest: "room_air", VccMin: "1.8", VccMax: "3.6", Iface: "I2C|SPI", I2CAddrDefault: "0x77", Notes: "High precision"},
	{Label: "BMP180 Barometer", Manufacturer: "Bosch", MPN: "BMP180", Category: "sensor", Kind: "pressure", ObservedProperty: "pressure|temperature", FeatureOfInterest: "room_air", VccMin: "1.8", VccMax: "3.6", Iface: "I2C", I2CAddrDefault: "0x77"},
	{Label: "DS18B20 Temp Probe", Manufacturer: "Dallas", MPN: "DS18B20", Category: "sensor", Kind: "temperature", ObservedProperty: "temperature", FeatureOfInterest: "liquid|object", VccMin: "3.0", VccMax: "5.5", Iface: "OneWire", RangeMin: "-55", RangeMax: "125", Units: "degC", Notes: "Waterproof available"},
	{Label: "TMP36 Analog Temp", Manufacturer: "Analog Devices", MPN: "TMP36", Category: "sensor", Kind: "temperature", ObservedProperty: "temperature", FeatureOfInterest: "pcb|device", VccMin: "2.7", VccMax: "5.5", Iface: "ADC", Notes: "Simple analog output"},
	{Label: "CCS811 Air Quality", Manufacturer: "AMS", MPN: "CCS811", Category: "sensor", Kind: "gas", ObservedProperty: "eCO2|TVOC", FeatureOfInterest: "room_air", VccMin: "1.8", VccMax: "3.3", Iface: "I2C", I2CAddrDefault: "0x5A"},
	{Label: "MQ-2 Gas Sensor", Manufacturer: "Generic", MPN: "MQ-2", Category: "sensor", Kind: "gas", ObservedProperty: "smoke|lpg|propane", FeatureOfInterest: "room_air", VccMin: "5.0", VccMax: "5.0", Iface: "ADC|Digital", Notes: "Heater needs warmup"},

	// Motion and distance sensors
	{Label: "HC-SR04 Ultrasonic", Manufacturer: "Generic", MPN: "HC-SR04", Category: "sensor", Kind: "distance", ObservedProperty: "distance", FeatureOfInterest: "obstacle_proximity", VccMin: "4.5", VccMax: "5.5", LogicLevel: "5.0", Iface: "GPIO_TRIGGER_ECHO", RangeMin: "2", RangeMax: "400", Units: "cm"},
	{Label: "HC-SR501 PIR", Manufacturer: "Generic", MPN: "HC-SR501", Category: "sensor", Kind: "motion", ObservedProperty: "motion", FeatureOfInterest: "human_presence", VccMin: "4.5", VccMax: "20", LogicLevel: "3.3", Iface: "GPIO", Notes: "Infrared motion"},
	{Label: "VL53L0X ToF", Manufacturer: "STMicro", MPN: "VL53L0X", Category: "sensor", Kind: "distance", ObservedProperty: "distance", FeatureOfInterest: "obstacle_proximity", VccMin: "2.6", VccMax: "3.5", Iface: "I2C", I2CAddrDefault: "0x29", Notes: "Laser Time-of-Flight"},
	{Label: "MPU-6050 IMU", Manufacturer: "InvenSense", MPN: "MPU-6050", Category: "sensor", Kind: "imu", ObservedProperty: "acceleration|angular_velocity", FeatureOfInterest: "device_orientation", VccMin: "2.3", VccMax: "3.4", Iface: "I2C", I2CAddrDefault: "0x68", Notes: "6-DOF"},
	{Label: "ADXL345 Accelerometer", Manufacturer: "Analog Devices", MPN: "ADXL345", Category: "sensor", Kind: "accelerometer", ObservedProperty: "acceleration", FeatureOfInterest: "device_motion", VccMin: "2.0", VccMax: "3.6", Iface: "I2C|SPI", I2CAddrDefault: "0x53"},

	// Light, touch and other sensors
	{Label: "LDR Photoresistor", Manufacturer: "Generic", MPN: "GL5528", Category: "sensor", Kind: "light", ObservedProperty: "illuminance", FeatureOfInterest: "ambient_light", VccMin: "0", VccMax: "100", Iface: "ADC", Notes: "Passive component"},
	{Label: "TSL2561 Lux Sensor", Manufacturer: "AMS", MPN: "TSL2561", Category: "sensor", Kind: "light", ObservedProperty: "illuminance", FeatureOfInterest: "ambient_light", VccMin: "2.7", VccMax: "3.6", Iface: "I2C", I2CAddrDefault: "0x39"},
	{Label: "Capacitive Touch TTP223", Manufacturer: "Generic", MPN: "TTP223", Category: "sensor", Kind: "touch", ObservedProperty: "touch", FeatureOfInterest: "user_input", VccMin: "2.0", VccMax: "5.5", Iface: "GPIO", Notes: "Single pad"},
	{Label: "Soil Moisture Sensor", Manufacturer: "Generic", MPN: "Capacitive Soil v1.2", Category: "sensor", Kind: "moisture", ObservedProperty: "soil_moisture", FeatureOfInterest: "soil", VccMin: "3.3", VccMax: "5.5", Iface: "ADC", Notes: "Capacitive type (corrosion resistant)"},
	{Label: "INA219 Current Sensor", Manufacturer: "TI", MPN: "INA219", Category: "sensor", Kind: "current", ObservedProperty: "current|voltage|power", FeatureOfInterest: "circuit_power", VccMin: "3.0", VccMax: "5.5", Iface: "I2C", I2CAddrDefault: "0x40", Notes: "High side measure"},

	// Actuators
	{Label: "SG90 Micro Servo", Manufacturer: "TowerPro", MPN: "SG90", Category: "actuator", Kind: "motor_servo", ActuatableProperty: "angular_position", FeatureOfInterest: "mechanical_arm", VccMin: "4.8", VccMax: "6.0", Iface: "PWM", RangeMin: "0", RangeMax: "180", Units: "deg"},
	{Label: "MG996R High Torque Servo", Manufacturer: "TowerPro", MPN: "MG996R", Category: "actuator", Kind: "motor_servo", ActuatableProperty: "angular_position", FeatureOfInterest: "mechanical_arm", VccMin: "4.8", VccMax: "7.2", Iface: "PWM", Notes: "Metal gear"},
	{Label: "28BYJ-48 Stepper + ULN2003", Manufacturer: "Generic", MPN: "28BYJ-48", Category: "actuator", Kind: "motor_stepper", ActuatableProperty: "angular_position", FeatureOfInterest: "precision_drive", VccMin: "5.0", VccMax: "5.0", Iface: "GPIO", Notes: "4-phase 5-wire"},
	{Label: "L298N Motor Driver", Manufacturer: "STMicro", MPN: "L298N Module", Category: "actuator", Kind: "motor_driver", ActuatableProperty: "motor_velocity", FeatureOfInterest: "dc_motor", VccMin: "5", VccMax: "35", Iface: "GPIO|PWM", IActiveMA: "2000"},
	{Label: "TB6612FNG Driver", Manufacturer: "Toshiba", MPN: "TB6612FNG", Category: "actuator", Kind: "motor_driver", ActuatableProperty: "motor_velocity", FeatureOfInterest: "dc_motor", VccMin: "4.5", VccMax: "13.5", Iface: "GPIO|PWM", IActiveMA: "1200", Notes: "Efficient dual H-bridge"},
	{Label: "SSD1306 OLED 128x64", Manufacturer: "Generic", MPN: "SSD1306", Category: "actuator", Kind: "display_oled", ActuatableProperty: "visual_display", FeatureOfInterest: "user_interface", VccMin: "3.3", VccMax: "5.0", Iface: "I2C", I2CAddrDefault: "0x3C"},
	{Label: "16x2 LCD (I2C)", Manufacturer: "Generic", MPN: "HD44780+PCF8574", Category: "actuator", Kind: "display_lcd", ActuatableProperty: "visual_display", FeatureOfInterest: "user_interface", VccMin: "4.5", VccMax: "5.5", Iface: "I2C", I2CAddrDefault: "0x27"},
	{Label: "WS2812B RGB LED", Manufacturer: "Worldsemi", MPN: "WS2812B", Category: "actuator", Kind: "led_rgb", ActuatableProperty: "color|brightness", FeatureOfInterest: "indicator_light", VccMin: "3.5", VccMax: "5.3", Iface: "Digital (NZR)", Notes: "Neopixel compatible"},
	{Label: "Relay Module 1-Ch", Manufacturer: "Generic", MPN: "Relay 5V", Category: "actuator", Kind: "relay", ActuatableProperty: "power_state", FeatureOfInterest: "appliance_power", VccMin: "5.0", VccMax: "5.0", Iface: "GPIO", Notes: "Optoisolated"},
	{Label: "Active Buzzer", Manufacturer: "Generic", MPN: "Active Buzzer", Category: "actuator", Kind: "buzzer", ActuatableProperty: "sound", FeatureOfInterest: "alarm_signal", VccMin: "3.3", VccMax: "5.0", Iface: "GPIO"},

	// Power
	{Label: "LM2596 Buck Converter", Manufacturer: "Generic", MPN: "LM2596", Category: "power", Kind: "regulator", VccMin: "3.2", VccMax: "40", Notes: "Step-down, adjustable"},
	{Label: "AMS1117-3.3 LDO", Manufacturer: "AMS", MPN: "AMS1117-3.3", Category: "power", Kind: "regulator", VccMin: "4.5", VccMax: "15", Notes: "3.3V fixed output"},
	{Label: "TP4056 LiPo Charger", Manufacturer: "Generic", MPN: "TP4056", Category: "power", Kind: "charger", VccMin: "4.5", VccMax: "5.5", Iface: "USB", Notes: "1A charging current"},
	{Label: "9V Battery Clip", Manufacturer: "Generic", MPN: "Clip-9V", Category: "power", Kind: "battery", VccMin: "9", VccMax: "9"},
	{Label: "18650 Battery Holder", Manufacturer: "Generic", MPN: "Holder-18650", Category: "power", Kind: "battery", VccMin: "3.7", VccMax: "4.2"},

	// Tooling
	{Label: "Breadboard 830", Manufacturer: "Generic", MPN: "BB-830", Category: "tooling", Kind: "breadboard", Notes: "830 tie points"},
	{Label: "Jumper Wires M-M", Manufacturer: "Generic", MPN: "Dupont M-M", Category: "tooling", Kind: "wire"},
	{Label: "Resistor Kit", Manufacturer: "Generic", MPN: "Resistor Assortment", Category: "tooling", Kind: "resistor", Notes: "1/4W 1% Metal Film"},
	{Label: "Logic Level Converter", Manufacturer: "Generic", MPN: "Logic Level 4-Ch", Category: "tooling", Kind: "level_shifter", VccMin: "3.3", VccMax: "5.0", Notes: "Bi-directional"},
}

// standardSource names the provenance of library records.
const standardSource = "standard"

// StandardParts returns fresh copies of the standard part library.
func StandardParts() []*core.RawRecord {
	out := make([]*core.RawRecord, len(standardParts))
	for i := range standardParts {
		rec := standardParts[i]
		rec.Source = standardSource
		rec.Line = i + 1
		out[i] = &rec
	}
	return out
}

// Seed returns the standard parts that existing does not already contain.
// A library part is present when an existing record has the same label or
// the same mpn, compared case-insensitively.
func Seed(existing []*core.RawRecord) []*core.RawRecord {
	labels := make(map[string]bool, len(existing))
	mpns := make(map[string]bool, len(existing))
	for _, rec := range existing {
		if l := strings.ToLower(strings.TrimSpace(rec.Label)); l != "" {
			labels[l] = true
		}
		if m := strings.ToLower(strings.TrimSpace(rec.MPN)); m != "" {
			mpns[m] = true
		}
	}

	var added []*core.RawRecord
	for _, rec := range StandardParts() {
		if labels[strings.ToLower(rec.Label)] || mpns[strings.ToLower(rec.MPN)] {
			continue
		}
		added = append(added, rec)
	}
	return added
}
