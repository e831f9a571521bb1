package theme

import "os"

// Nerd Font icons.
const (
	nerdIconSuccess  = "󰄬" // md-check (U+F012C)
	nerdIconError    = "\uea87" // cod-error (U+EA87)
	nerdIconWarning  = "\uf071" // fa-warning (U+F071)
	nerdIconInfo     = "󰋼" // md-information (U+F02FC)
	nerdIconArrow    = "󰁔" // md-arrow_right (U+F0054)
	nerdIconBullet   = "\uf444" // oct-dot_fill (U+F444)
	nerdIconGamepad  = "󰊴" // md-gamepad_variant (U+F02B4)
	nerdIconKeyboard = "󰌌" // md-keyboard (U+F030C)
	nerdIconLink     = "󰌹" // md-link (U+F0339)
)

// ASCII fallbacks.
const (
	asciiIconSuccess  = "[ok]"
	asciiIconError    = "[x]"
	asciiIconWarning  = "[!]"
	asciiIconInfo     = "[i]"
	asciiIconArrow    = "->"
	asciiIconBullet   = "*"
	asciiIconGamepad  = "[pad]"
	asciiIconKeyboard = "[kbd]"
	asciiIconLink     = "[link]"
)

var (
	IconSuccess  string
	IconError    string
	IconWarning  string
	IconInfo     string
	IconArrow    string
	IconBullet   string
	IconGamepad  string
	IconKeyboard string
	IconLink     string
)

func init() {
	useASCII := os.Getenv("PADNAV_ICONS") == "ascii"
	if !useASCII && os.Getenv("PADNAV_ICONS") == "" {
		useASCII = loadTUISettings().Icons == "ascii"
	}
	SetASCII(useASCII)
}

// SetASCII switches between Nerd Font and plain ASCII icons.
func SetASCII(ascii bool) {
	if ascii {
		IconSuccess = asciiIconSuccess
		IconError = asciiIconError
		IconWarning = asciiIconWarning
		IconInfo = asciiIconInfo
		IconArrow = asciiIconArrow
		IconBullet = asciiIconBullet
		IconGamepad = asciiIconGamepad
		IconKeyboard = asciiIconKeyboard
		IconLink = asciiIconLink
		return
	}
	IconSuccess = nerdIconSuccess
	IconError = nerdIconError
	IconWarning = nerdIconWarning
	IconInfo = nerdIconInfo
	IconArrow = nerdIconArrow
	IconBullet = nerdIconBullet
	IconGamepad = nerdIconGamepad
	IconKeyboard = nerdIconKeyboard
	IconLink = nerdIconLink
}
