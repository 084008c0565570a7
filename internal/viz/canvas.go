package viz

import (
	"math"
	"strings"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/orbit"
)

// SectionToASCII renders the crossings of a batch as a terminal scatter
// plot, angle on the horizontal axis and flux on the vertical.
func SectionToASCII(records []*orbit.MapResult, width, height int) string {
	type pt struct{ x, y float64 }
	var points []pt
	for _, rec := range records {
		if rec == nil {
			continue
		}
		for i := range rec.Angles {
			points = append(points, pt{
				x: math.Mod(rec.Angles[i], 2*math.Pi),
				y: rec.Fluxes[i],
			})
		}
	}
	if len(points) == 0 {
		return "No crossings detected"
	}

	minX, maxX := points[0].x, points[0].x
	minY, maxY := points[0].y, points[0].y
	for _, p := range points {
		minX = math.Min(minX, p.x)
		maxX = math.Max(maxX, p.x)
		minY = math.Min(minY, p.y)
		maxY = math.Max(maxY, p.y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range points {
		col := int((p.x - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
