package boards

// Pico covers the Pico and Pico 2: user GPIOs GP0..GP28.
var Pico = Board{
	Name:    "pico",
	GPIOMin: 0,
	GPIOMax: 28,
	I2C:     []string{"i2c0", "i2c1"},
	UART:    []string{"uart0", "uart1"},
}
