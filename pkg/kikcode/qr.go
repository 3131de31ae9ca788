package kikcode

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
)

var (
	ErrEmptyData   = errors.New("payload data is empty")
	ErrDataTooLong = errors.New("payload data is too long")
	ErrInvalidSize = errors.New("invalid size")
)

var finderPattern = []byte{0xb2, 0xcb, 0x25, 0xc6}

const (
	maxKikCodePayloadDataLength = 40

	// Ring radii as a fraction of half the code's dimension
	innerRingRatio = 0.32
	firstRingRatio = 0.425
	lastRingRatio  = 0.95

	ringCount = 6

	// Each ring has 8 more bit positions than the one inside it, starting at 32
	innerRingPositions    = 32
	positionsPerRingDelta = 8

	arcStrokeWidth = 11.5
)

// KikCodePayload is the finder pattern followed by the scan code payload, read
// bit by bit around the rings
type KikCodePayload []byte

func CreateKikCodePayload(data []byte) KikCodePayload {
	return append(append(KikCodePayload{}, finderPattern...), data...)
}

func (p KikCodePayload) bit(offset int) bool {
	index := offset / 8
	return index < len(p) && p[index]&(1<<(offset%8)) != 0
}

// Description is the vector layout of a Kik code: a center circle surrounded
// by rings of dots and arcs, with one position per payload bit. Runs of set
// bits are joined with arcs and the last bit of a run is a dot.
type Description struct {
	dimension    float64
	dotDimension float64
	centerPath   string
	dotPaths     []string
	arcPaths     []string
}

func GenerateDescription(dimension float64, data KikCodePayload) (*Description, error) {
	switch {
	case dimension <= 0:
		return nil, ErrInvalidSize
	case len(data) == 0:
		return nil, ErrEmptyData
	case len(data) >= maxKikCodePayloadDataLength:
		return nil, ErrDataTooLong
	}

	cx, cy := dimension/2, dimension/2
	halfWidth := dimension / 2
	innerRadius := innerRingRatio * halfWidth
	firstRadius := firstRingRatio * halfWidth
	ringWidth := (lastRingRatio*halfWidth - firstRadius) / ringCount
	dotSize := 0.75 * ringWidth

	d := &Description{
		dimension:    dimension,
		dotDimension: dotSize,
		centerPath:   circlePath(cx, cy, innerRadius),
	}

	offset := 0
	for ring := 0; ring < ringCount; ring++ {
		radius := firstRadius + ringWidth*float64(ring) + ringWidth/2
		if ring == 0 {
			radius -= innerRadius / 10
		}

		positions := innerRingPositions + positionsPerRingDelta*ring
		step := 2 * math.Pi / float64(positions)
		ringStart := offset

		for i := 0; i < positions; i, offset = i+1, offset+1 {
			if !data.bit(offset) {
				continue
			}

			angle := float64(i)*step - math.Pi/2
			x, y := cx+radius*math.Cos(angle), cy+radius*math.Sin(angle)

			// The neighbour wraps around to the start of the ring
			next := ringStart + (i+1)%positions
			if data.bit(next) {
				d.arcPaths = append(d.arcPaths, fmt.Sprintf(
					"M%[1]f,%[2]f A%[3]f,%[3]f 0 0,1 %[4]f,%[5]f",
					x, y, radius,
					cx+radius*math.Cos(angle+step),
					cy+radius*math.Sin(angle+step),
				))
				continue
			}
			d.dotPaths = append(d.dotPaths, circlePath(x, y, dotSize/2))
		}
	}

	return d, nil
}

// circlePath draws a full circle as two half arcs
func circlePath(cx, cy, r float64) string {
	return fmt.Sprintf(
		"M%[1]f,%[2]f m-%[3]f,0 a%[3]f,%[3]f 0 1,0 %[4]f,0 a%[3]f,%[3]f 0 1,0 -%[4]f,0",
		cx, cy, r, 2*r,
	)
}

type QrCodeRenderOptions struct {
	ForegroundColor color.Color

	IncludeBackground bool
	BackgroundColor   color.Color
}

// DefaultRenderOptions renders a white code on a transparent background
func DefaultRenderOptions() *QrCodeRenderOptions {
	return &QrCodeRenderOptions{
		ForegroundColor: color.White,
		BackgroundColor: color.Black,
	}
}

func (d *Description) GetDimension() float64 {
	return d.dimension
}

func (d *Description) GetDotDimension() float64 {
	return d.dotDimension
}

func (d *Description) GetDotCount() int {
	return len(d.dotPaths)
}

func (d *Description) GetArcCount() int {
	return len(d.arcPaths)
}

func (d *Description) ToSvg(opts *QrCodeRenderOptions) string {
	if opts == nil {
		opts = DefaultRenderOptions()
	}
	fg := hexColor(opts.ForegroundColor)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg width="%[1]f" height="%[1]f" viewBox="0 0 %[1]f %[1]f">`, d.dimension)
	if opts.IncludeBackground {
		fmt.Fprintf(&sb, `<circle cx="%[1]f" cy="%[1]f" r="%[1]f" fill="%[2]s"/>`, d.dimension/2, hexColor(opts.BackgroundColor))
	}
	fmt.Fprintf(&sb, `<path d="%s" fill="%s"/>`, d.centerPath, fg)
	for _, arc := range d.arcPaths {
		fmt.Fprintf(&sb, `<path d="%s" stroke="%s" stroke-linecap="round" stroke-width="%g"/>`, arc, fg, arcStrokeWidth)
	}
	for _, dot := range d.dotPaths {
		fmt.Fprintf(&sb, `<path d="%s" fill="%s"/>`, dot, fg)
	}
	sb.WriteString(`</svg>`)
	return sb.String()
}

func hexColor(c color.Color) string {
	if c == nil {
		c = color.Black
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%.2x%.2x%.2x", rgba.R, rgba.G, rgba.B)
}
