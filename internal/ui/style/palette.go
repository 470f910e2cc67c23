package style

import "github.com/muesli/termenv"

// Palette holds one color per semantic role.
// Values are ANSI color numbers (0-255) or "bold".
type Palette struct {
	Success string
	Warning string
	Error   string
	Info    string
	Muted   string
	Header  string
}

// Bright colors for dark terminals.
var Dark = Palette{
	Success: "10",
	Warning: "11",
	Error:   "9",
	Info:    "14",
	Muted:   "245",
	Header:  "bold",
}

// Saturated colors that read on white backgrounds.
var Light = Palette{
	Success: "28",
	Warning: "130",
	Error:   "124",
	Info:    "27",
	Muted:   "240",
	Header:  "bold",
}

// isDarkBackground is swapped in tests.
var isDarkBackground = termenv.HasDarkBackground

// LoadPalette picks Dark or Light from CMDR_COLOR_THEME ("dark", "light")
// or terminal detection, then applies CMDR_COLOR_<ROLE> overrides.
func LoadPalette(getenv func(string) string) Palette {
	var p Palette
	switch getenv("CMDR_COLOR_THEME") {
	case "dark":
		p = Dark
	case "light":
		p = Light
	default:
		if isDarkBackground() {
			p = Dark
		} else {
			p = Light
		}
	}

	overrides := map[string]*string{
		"CMDR_COLOR_SUCCESS": &p.Success,
		"CMDR_COLOR_WARNING": &p.Warning,
		"CMDR_COLOR_ERROR":   &p.Error,
		"CMDR_COLOR_INFO":    &p.Info,
		"CMDR_COLOR_MUTED":   &p.Muted,
		"CMDR_COLOR_HEADER":  &p.Header,
	}
	for key, field := range overrides {
		if v := getenv(key); v != "" {
			*field = v
		}
	}
	return p
}
