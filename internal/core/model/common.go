package model

// Canonical column identifiers, in on-disk order.
const (
	ColDate        = "date"
	ColTimeOfDay   = "time_of_day"
	ColCurrent     = "current"
	ColSpeedMs     = "speed_ms"
	ColTemperature = "temperature"
	ColDistance    = "distance"
	ColWoodPresent = "wood_present"
)

// CanonicalColumns is the header of the persisted canonical table. The order
// is part of the file contract read back by the cycle report.
var CanonicalColumns = []string{
	ColDate,
	ColTimeOfDay,
	ColCurrent,
	ColSpeedMs,
	ColTemperature,
	ColDistance,
	ColWoodPresent,
}

// LegacyColumns maps headers written by older exports onto canonical names.
var LegacyColumns = map[string]string{
	"fecha":           ColDate,
	"hora":            ColTimeOfDay,
	"Corriente":       ColCurrent,
	"Velocidad (ms)":  ColSpeedMs,
	"Temperatura(ºC)": ColTemperature,
	"Temperatura(°C)": ColTemperature,
	"Distancia(mm)":   ColDistance,
	"Madera":          ColWoodPresent,
}

// TrackedSignals are the columns checked by the no-activity rule: a row whose
// tracked signals are all zero is dropped at merge time.
var TrackedSignals = []string{
	ColCurrent,
	ColTemperature,
	ColDistance,
	ColWoodPresent,
	ColSpeedMs,
}

// SourceKind identifies one of the three input logs of a dataset.
type SourceKind string

const (
	SourceCurrent SourceKind = "current"
	SourceLaser   SourceKind = "laser"
	SourceSpeed   SourceKind = "speed"
)

// SourceKinds lists the sources in merge order.
var SourceKinds = []SourceKind{SourceCurrent, SourceLaser, SourceSpeed}

// ChartColumns returns the numeric columns a plot can use as its y axis.
func ChartColumns() []string {
	return []string{ColCurrent, ColSpeedMs, ColTemperature, ColDistance}
}

// IsCanonicalColumn reports whether name is one of CanonicalColumns.
func IsCanonicalColumn(name string) bool {
	for _, col := range CanonicalColumns {
		if col == name {
			return true
		}
	}
	return false
}
