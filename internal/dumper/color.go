package dumper

type scalarKind int

const (
	nullColor scalarKind = iota
	boolColor
	numberColor
	stringColor
)

// ANSI color sequences.
var (
	Reset      = []byte("\033[0m")
	Green      = []byte("\033[32m")
	Yellow     = []byte("\033[33m")
	White      = []byte("\033[37m")
	DimWhite   = []byte("\033[37;2m")
	BrightBlue = []byte("\033[34;1m")
)

// Colorizer holds the escape sequences written around keys and scalars.
// ScalarColorCodes is indexed null, boolean, number, string.
type Colorizer struct {
	ScalarColorCodes [4][]byte
	KeyColorCode     []byte
	ResetCode        []byte
}

// DefaultColorizer is the palette used for terminal output.
var DefaultColorizer = &Colorizer{
	ScalarColorCodes: [4][]byte{DimWhite, Yellow, White, Green},
	KeyColorCode:     BrightBlue,
	ResetCode:        Reset,
}
