package devices

// Presets
var (
	IPhoneX = Device{
		Title:     "iPhone X",
		Width:     375,
		Height:    812,
		Scale:     3,
		Mobile:    true,
		Touch:     true,
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 11_0 like Mac OS X) AppleWebKit/604.1.38 (KHTML, like Gecko) Version/11.0 Mobile/15A372 Safari/604.1",
	}

	IPad = Device{
		Title:     "iPad",
		Width:     768,
		Height:    1024,
		Scale:     2,
		Mobile:    true,
		Touch:     true,
		UserAgent: "Mozilla/5.0 (iPad; CPU OS 11_0 like Mac OS X) AppleWebKit/604.1.34 (KHTML, like Gecko) Version/11.0 Mobile/15A5341f Safari/604.1",
	}

	Pixel2 = Device{
		Title:     "Pixel 2",
		Width:     411,
		Height:    731,
		Scale:     2.625,
		Mobile:    true,
		Touch:     true,
		UserAgent: "Mozilla/5.0 (Linux; Android 8.0; Pixel 2 Build/OPD3.170816.012) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
	}

	LaptopWithMDPIScreen = Device{
		Title:  "Laptop with MDPI screen",
		Width:  1280,
		Height: 800,
		Scale:  1,
	}

	LaptopWithHiDPIScreen = Device{
		Title:  "Laptop with HiDPI screen",
		Width:  1440,
		Height: 900,
		Scale:  2,
	}
)

// List of the presets
var List = []Device{IPhoneX, IPad, Pixel2, LaptopWithMDPIScreen, LaptopWithHiDPIScreen}
