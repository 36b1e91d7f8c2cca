// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pinmap

const u = Unmapped

// Raspberry Pi Model B revision 1 and 1.1.
var logicalR1 = Table{
	17, 18, 21, 22, 23, 24, 25, 4, // GPIO 0 through 7
	0, 1, // I2C SDA1, SCL1
	8, 7, // SPI CE1, CE0
	10, 9, 11, // SPI MOSI, MISO, SCLK
	14, 15, // UART TX, RX
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
}

// Raspberry Pi revision 2, B+, A+, Pi 2 and the Compute Module.
var logicalR2 = Table{
	17, 18, 27, 22, 23, 24, 25, 4, // GPIO 0 through 7
	2, 3, // I2C SDA0, SCL0
	8, 7, // SPI CE1, CE0
	10, 9, 11, // SPI MOSI, MISO, SCLK
	14, 15, // UART TX, RX
	28, 29, 30, 31, // P5
	5, 6, 13, 19, 26, // B+
	12, 16, 20, 21, // B+
	0, 1, // B+ ID EEPROM
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
}

// P1, 26 pins.
var physicalR1 = Table{
	u,
	u, u, // 1, 2
	0, u,
	1, u,
	4, 14,
	u, 15,
	17, 18,
	21, u,
	22, 23,
	u, 24,
	10, u,
	9, 25,
	11, 8,
	u, 7, // 25, 26
	u, u, u, u, u,
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
}

// J8 40 pins, then the P5 connector of the revision 2 Model B on 51 to 54.
var physicalR2 = Table{
	u,
	u, u, // 1, 2
	2, u,
	3, u,
	4, 14,
	u, 15,
	17, 18,
	27, u,
	22, 23,
	u, 24,
	10, u,
	9, 25,
	11, 8,
	u, 7, // 25, 26
	0, 1,
	5, u,
	6, 12,
	13, u,
	19, 16,
	26, 20,
	u, 21, // 39, 40
	u, u,
	u, u,
	u, u,
	u, u,
	u, u,
	28, 29,
	30, 31,
	u, u,
	u, u,
	u, u,
	u, u,
	u,
}

// BCM2835 exposes GPIO 0 to 53.
var nativeBCM = Table{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31,
	32, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47,
	48, 49, 50, 51, 52, 53, u, u, u, u, u, u, u, u, u, u,
}

var identity = Table{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31,
	32, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47,
	48, 49, 50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60, 61, 62, 63,
}

// Banana Pi M2. Native sunxi pin numbers are bank*32+index, e.g. PH10 is
// 7*32+10 = 234.
var logicalBP = Table{
	199, 234, // 0, 1
	198, 201, // 2, 3
	235, 236, // 4, 5
	200, 233, // 6, 7
	243, 242, // 8, 9
	205, 204, // 10, 11
	207, 208, // 12, 13
	206, 132, // 14, 15
	133, u, // 16, 17
	u, u, // 18, 19
	u, 32, // 20, 21
	33, 34, // 22, 23
	35, 36, // 24, 25
	39, 134, // 26, 27
	135, 290, // 28, 29
	38, 37, // 30, 31
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
}

// Broadcom GPIO number to the sunxi pin at the same header position.
var nativeBP = Table{
	38, 37, // 0, 1
	243, 242, // 2, 3
	233, 32, // 4, 5
	33, 204, // 6, 7
	205, 208, // 8, 9
	207, 206, // 10, 11
	39, 34, // 12, 13
	132, 133, // 14, 15
	134, 199, // 16, 17
	234, 35, // 18, 19
	135, 290, // 20, 21
	201, 235, // 22, 23
	236, 200, // 24, 25
	36, 198, // 26, 27
	u, u, u, u,
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
}

var physicalBP = Table{
	u,
	u, u, // 1, 2
	243, u, // 3, 4
	242, u, // 5, 6
	233, 132, // 7, 8
	u, 133, // 9, 10
	199, 234, // 11, 12
	198, u, // 13, 14
	201, 235, // 15, 16
	u, 236, // 17, 18
	207, u, // 19, 20
	208, 200, // 21, 22
	206, 205, // 23, 24
	u, 204, // 25, 26
	38, 37, // 27, 28
	32, u, // 29, 30
	33, 39, // 31, 32
	34, u, // 33, 34
	35, 134, // 35, 36
	36, 135, // 37, 38
	u, 290, // 39, 40
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
	u, u, u, u, u, u, u, u,
}

// GPIO 0 and 1 are reserved for I2C by the Banana Pi kernel.
var sysfsBP = Table{
	u, u, 2, 3, 4, 5, 6, 7,
	8, 9, 10, 11, 12, 13, 14, 15,
	16, 17, 18, 19, 20, 21, 22, 23,
	24, 25, 26, 27, u, u, u, u,
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
}

var edgeBP = Table{
	u, u, u, u, 4, u, u, 7,
	8, 9, 10, 11, u, u, 14, 15,
	u, 17, u, u, u, u, 22, 23,
	24, 25, u, 27, u, u, u, u,
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
	u, u, u, u, u, u, u, u, u, u, u, u, u, u, u, u,
}
