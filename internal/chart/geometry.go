package chart

import "math"

// MinHeight is the smallest chart height FitViewport will produce.
const MinHeight = 300

const (
	DefaultTooltipOffset = 10
	heightRatio          = 0.45
	bandPadding          = 0.3
	volumeRatio          = 0.15
	targetTicks          = 6
	priceLabelFormat     = "$%.2f"
	dateLabelFormat      = "Jan 02"
)

// Margins reserve space around the plot area for the axes.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// DefaultMargins leave room for the price axis on the right and date labels
// below.
var DefaultMargins = Margins{Top: 20, Right: 60, Bottom: 30, Left: 60}

// Geometry is the chart viewport in container coordinates.
type Geometry struct {
	Width, Height float64
	Margins       Margins
	TooltipOffset float64
}

// NewGeometry creates a viewport with the default margins and tooltip offset.
func NewGeometry(width, height float64) Geometry {
	return Geometry{
		Width:         width,
		Height:        height,
		Margins:       DefaultMargins,
		TooltipOffset: DefaultTooltipOffset,
	}
}

// FitViewport sizes the chart to its container: full width, height
// proportional to it but never below MinHeight.
func FitViewport(containerWidth float64) Geometry {
	return NewGeometry(containerWidth, math.Max(MinHeight, containerWidth*heightRatio))
}

func (g Geometry) InnerWidth() float64 { return g.Width - g.Margins.Left - g.Margins.Right }

func (g Geometry) InnerHeight() float64 { return g.Height - g.Margins.Top - g.Margins.Bottom }
