package reader

// Screen selects which view is rendered.
type Screen int

const (
	ScreenMainMenu Screen = iota
	ScreenBooks
	ScreenBookDetail
	ScreenPsalms
	ScreenPsalmModal
)

var screenNames = map[Screen]string{
	ScreenMainMenu:   "main-menu",
	ScreenBooks:      "books",
	ScreenBookDetail: "book-detail",
	ScreenPsalms:     "psalms",
	ScreenPsalmModal: "psalm-modal",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return "unknown"
}

// transitions lists the screens reachable from each screen.
var transitions = map[Screen][]Screen{
	ScreenMainMenu:   {ScreenBooks, ScreenPsalms},
	ScreenBooks:      {ScreenBookDetail, ScreenMainMenu},
	ScreenBookDetail: {ScreenBooks},
	ScreenPsalms:     {ScreenPsalmModal, ScreenMainMenu},
	ScreenPsalmModal: {ScreenPsalms},
}

// CanTransition reports whether to is reachable from s in one step.
func (s Screen) CanTransition(to Screen) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// FontSize is the reading text size, ordered from smallest to largest.
type FontSize int

const (
	FontSmall FontSize = iota
	FontBase
	FontLarge
	FontExtraLarge
)

func (f FontSize) String() string {
	switch f {
	case FontSmall:
		return "sm"
	case FontBase:
		return "base"
	case FontLarge:
		return "lg"
	case FontExtraLarge:
		return "xl"
	default:
		return "unknown"
	}
}

// Increase returns the next larger size, stopping at FontExtraLarge.
func (f FontSize) Increase() FontSize {
	if f >= FontExtraLarge {
		return FontExtraLarge
	}
	return f + 1
}

// Decrease returns the next smaller size, stopping at FontSmall.
func (f FontSize) Decrease() FontSize {
	if f <= FontSmall {
		return FontSmall
	}
	return f - 1
}
