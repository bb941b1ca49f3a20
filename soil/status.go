package soil

import (
	"fmt"
	"sort"

	"github.com/jrsteele09/securecrop-client/internal/errors"
)

// Parameter names a soil measurement, using the backend's field names.
type Parameter string

const (
	Nitrogen    Parameter = "N_level"
	Phosphorus  Parameter = "P_level"
	Potassium   Parameter = "K_level"
	PH          Parameter = "ph"
	Moisture    Parameter = "moisture"
	Temperature Parameter = "temperature"
)

// Parameters lists the measurements in form order.
var Parameters = []Parameter{Nitrogen, Phosphorus, Potassium, PH, Moisture, Temperature}

// Reading is one set of measurements keyed by parameter.
type Reading map[Parameter]float64

type Status string

const (
	StatusLow        Status = "low"
	StatusOptimal    Status = "optimal"
	StatusAcceptable Status = "acceptable"
	StatusHigh       Status = "high"
	StatusUnknown    Status = "unknown"
)

// Colour is the display colour associated with a status.
type Colour string

const (
	Orange Colour = "orange"
	Green  Colour = "green"
	Yellow Colour = "yellow"
	Red    Colour = "red"
	Gray   Colour = "gray"
)

var statusColours = map[Status]Colour{
	StatusLow:        Orange,
	StatusOptimal:    Green,
	StatusAcceptable: Yellow,
	StatusHigh:       Red,
	StatusUnknown:    Gray,
}

func (s Status) Colour() Colour {
	return statusColours[s]
}

// Range describes a parameter's agronomic bands: below Low is low, inside
// [OptimalMin, OptimalMax] is optimal, above High is high and anything else
// is acceptable.
type Range struct {
	Low        float64
	OptimalMin float64
	OptimalMax float64
	High       float64
}

var ranges = map[Parameter]Range{
	Nitrogen:    {Low: 40, OptimalMin: 60, OptimalMax: 140, High: 180},
	Phosphorus:  {Low: 30, OptimalMin: 50, OptimalMax: 120, High: 160},
	Potassium:   {Low: 35, OptimalMin: 55, OptimalMax: 130, High: 170},
	PH:          {Low: 5.5, OptimalMin: 6.0, OptimalMax: 7.5, High: 8.0},
	Moisture:    {Low: 30, OptimalMin: 40, OptimalMax: 80, High: 90},
	Temperature: {Low: 15, OptimalMin: 20, OptimalMax: 35, High: 40},
}

// Bounds are the values the submission form accepts.
type Bounds struct {
	Min float64
	Max float64
}

var bounds = map[Parameter]Bounds{
	Nitrogen:    {Min: 0, Max: 200},
	Phosphorus:  {Min: 0, Max: 200},
	Potassium:   {Min: 0, Max: 200},
	PH:          {Min: 0, Max: 14},
	Moisture:    {Min: 0, Max: 100},
	Temperature: {Min: -10, Max: 60},
}

// RangeFor returns the bands for p.
func RangeFor(p Parameter) (Range, bool) {
	r, ok := ranges[p]
	return r, ok
}

// Rate classifies value for parameter p.
func Rate(p Parameter, value float64) Status {
	r, ok := ranges[p]
	if !ok {
		return StatusUnknown
	}
	switch {
	case value < r.Low:
		return StatusLow
	case value >= r.OptimalMin && value <= r.OptimalMax:
		return StatusOptimal
	case value > r.High:
		return StatusHigh
	default:
		return StatusAcceptable
	}
}

// RateReading classifies every parameter in the reading.
func RateReading(reading Reading) map[Parameter]Status {
	rated := make(map[Parameter]Status, len(reading))
	for p, v := range reading {
		rated[p] = Rate(p, v)
	}
	return rated
}

// Validate checks that all six parameters are present and within the form's
// bounds.
func Validate(reading Reading) error {
	for _, p := range Parameters {
		if _, ok := reading[p]; !ok {
			return errors.Wrapf(errors.ErrInvalidRequest, "missing %s", p)
		}
	}

	var problems []string
	for p, v := range reading {
		b, ok := bounds[p]
		if !ok {
			return errors.Wrapf(errors.ErrInvalidRequest, "unknown parameter %s", p)
		}
		if v < b.Min || v > b.Max {
			problems = append(problems, fmt.Sprintf("%s=%v not in [%v, %v]", p, v, b.Min, b.Max))
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return errors.Wrapf(errors.ErrOutOfRange, "%v", problems)
	}
	return nil
}
