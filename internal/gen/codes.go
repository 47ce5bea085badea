package gen

// Generation diagnostic codes (E300-E399).
const (
	ErrGenDescriptor = "E301" // binding descriptor could not be built
	ErrGenFailed     = "E302" // factory generation or emission failed
)
