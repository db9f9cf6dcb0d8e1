package domain

type Color string

func (c Color) String() string {
	return string(c)
}

const (
	ColorBlue  Color = "Blue"
	ColorBlack Color = "Black"
	ColorGreen Color = "Green"
	ColorRed   Color = "Red"
	ColorWhite Color = "White"
	ColorNavy  Color = "Navy"
)

var Colors = []Color{
	ColorBlue,
	ColorBlack,
	ColorGreen,
	ColorRed,
	ColorWhite,
	ColorNavy,
}

type Size string

func (s Size) String() string {
	return string(s)
}

const (
	SizeSmall  Size = "S"
	SizeMedium Size = "M"
	SizeLarge  Size = "L"
)

var Sizes = []Size{
	SizeSmall,
	SizeMedium,
	SizeLarge,
}

type DressType string

func (t DressType) String() string {
	return string(t)
}

const (
	DressTypeCasual     DressType = "Casual"
	DressTypeFormal     DressType = "Formal"
	DressTypeSemiFormal DressType = "Semi-Formal"
)

var DressTypes = []DressType{
	DressTypeCasual,
	DressTypeFormal,
	DressTypeSemiFormal,
}

// FilterDimension names one of the multi-select catalog filters
type FilterDimension string

func (d FilterDimension) String() string {
	return string(d)
}

const (
	FilterColor FilterDimension = "color"
	FilterSize  FilterDimension = "size"
	FilterType  FilterDimension = "type"
)

var FilterDimensions = []FilterDimension{
	FilterColor,
	FilterSize,
	FilterType,
}

func (d FilterDimension) Valid() bool {
	switch d {
	case FilterColor, FilterSize, FilterType:
		return true
	default:
		return false
	}
}

// Options returns the values the storefront offers for the dimension
func (d FilterDimension) Options() []string {
	switch d {
	case FilterColor:
		return toStrings(Colors)
	case FilterSize:
		return toStrings(Sizes)
	case FilterType:
		return toStrings(DressTypes)
	default:
		return nil
	}
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
