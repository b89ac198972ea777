// Package reflectance holds the dense float reflectance layer that WHDR is
// computed on, and its conversion from decoded prediction images.
package reflectance

import (
	"fmt"
	"math"
	"strings"

	"github.com/DjordjeVuckovic/iiw-bench/internal/apperr"
)

// Map is a row-major, channel-interleaved array of non-negative intensities.
type Map struct {
	Rows     int       `json:"rows"`
	Cols     int       `json:"cols"`
	Channels int       `json:"channels"`
	Pix      []float64 `json:"pix"`
}

func New(rows, cols, channels int) *Map {
	return &Map{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Pix:      make([]float64, rows*cols*channels),
	}
}

// Validate checks the shape against the pixel buffer. Maps built outside
// New, e.g. decoded from a request body, must pass it before use.
func (m *Map) Validate() error {
	if m.Rows <= 0 || m.Cols <= 0 {
		return apperr.NewValidation(fmt.Sprintf("reflectance must have positive dimensions, got %dx%d", m.Rows, m.Cols))
	}
	if m.Channels <= 0 {
		return apperr.NewValidation(fmt.Sprintf("reflectance must have at least one channel, got %d", m.Channels))
	}
	if m.Rows > math.MaxInt/m.Cols/m.Channels {
		return apperr.NewValidation(fmt.Sprintf("reflectance dimensions %dx%dx%d are too large", m.Rows, m.Cols, m.Channels))
	}
	if want := m.Rows * m.Cols * m.Channels; len(m.Pix) != want {
		return apperr.NewValidation(fmt.Sprintf("reflectance has %d values, expected %d", len(m.Pix), want))
	}
	return nil
}

func (m *Map) Dims() (rows, cols int) { return m.Rows, m.Cols }

func (m *Map) offset(row, col int) int {
	return (row*m.Cols + col) * m.Channels
}

func (m *Map) At(row, col, ch int) float64 {
	return m.Pix[m.offset(row, col)+ch]
}

func (m *Map) Set(row, col, ch int, v float64) {
	m.Pix[m.offset(row, col)+ch] = v
}

func (m *Map) MeanAt(row, col int) float64 {
	off := m.offset(row, col)
	var sum float64
	for c := 0; c < m.Channels; c++ {
		sum += m.Pix[off+c]
	}
	return sum / float64(m.Channels)
}

// Fill sets every channel of every pixel to v.
func (m *Map) Fill(v float64) *Map {
	for i := range m.Pix {
		m.Pix[i] = v
	}
	return m
}

type ColorSpace string

const (
	SRGB   ColorSpace = "srgb"
	Linear ColorSpace = "linear"
)

func ParseColorSpace(s string) (ColorSpace, error) {
	switch cs := ColorSpace(strings.ToLower(strings.TrimSpace(s))); cs {
	case SRGB, Linear:
		return cs, nil
	case "":
		return SRGB, nil
	default:
		return "", apperr.NewValidation(fmt.Sprintf("unknown color space %q", s))
	}
}
