package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Default file and column names of a dataset folder.
const (
	CurrentFile = "Corr.txt"
	LaserFile   = "registro_laser.txt"
	SpeedFile   = "Velocidad.txt"

	CurrentHeader = "Fecha Hora Corriente"
	LaserHeader   = "Fecha Hora Temperatura(ºC) Distancia(mm) Madera"
	SpeedHeader   = "Date Time Milliseconds"
)

// CurrentSample is one line of Corr.txt.
type CurrentSample struct {
	Time    time.Time
	Current float64
}

// LaserSample is one line of registro_laser.txt.
type LaserSample struct {
	Time        time.Time
	Temperature float64
	Distance    float64
	Wood        int
}

// SpeedSample is one line of Velocidad.txt.
type SpeedSample struct {
	Time         time.Time
	Milliseconds float64
}

// Dataset holds the content of the three logs of a folder.
type Dataset struct {
	Current []CurrentSample
	Laser   []LaserSample
	Speed   []SpeedSample
}

// CycleDataset builds one sample per second per source starting at start,
// with the wood flag following wood. Values vary with the index so every row
// carries signal.
func CycleDataset(start time.Time, wood []int) Dataset {
	var ds Dataset
	for i, w := range wood {
		ts := start.Add(time.Duration(i) * time.Second)
		ds.Current = append(ds.Current, CurrentSample{Time: ts, Current: float64(10 + i)})
		ds.Laser = append(ds.Laser, LaserSample{
			Time:        ts,
			Temperature: 20 + float64(i)/2,
			Distance:    float64(100 * (i + 1)),
			Wood:        w,
		})
		ds.Speed = append(ds.Speed, SpeedSample{Time: ts, Milliseconds: float64(250 + i)})
	}
	return ds
}

// DatasetGenerator writes dataset folders for tests.
type DatasetGenerator struct {
	baseDir string
}

// NewDatasetGenerator creates a generator rooted at baseDir.
func NewDatasetGenerator(baseDir string) *DatasetGenerator {
	return &DatasetGenerator{baseDir: baseDir}
}

// GetBaseDir returns the root directory.
func (g *DatasetGenerator) GetBaseDir() string {
	return g.baseDir
}

// WriteDataset writes the three logs of ds into folder and returns its path.
func (g *DatasetGenerator) WriteDataset(folder string, ds Dataset) (string, error) {
	dir := filepath.Join(g.baseDir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	current := []string{CurrentHeader}
	for _, s := range ds.Current {
		current = append(current, fmt.Sprintf("%s %s %s", day(s.Time), clock(s.Time), num(s.Current)))
	}
	laser := []string{LaserHeader}
	for _, s := range ds.Laser {
		laser = append(laser, fmt.Sprintf("%s %s %s %s %d", day(s.Time), clock(s.Time), num(s.Temperature), num(s.Distance), s.Wood))
	}
	speed := []string{SpeedHeader}
	for _, s := range ds.Speed {
		speed = append(speed, fmt.Sprintf("%s %s %s", day(s.Time), clock(s.Time), num(s.Milliseconds)))
	}

	files := map[string][]string{CurrentFile: current, LaserFile: laser, SpeedFile: speed}
	for name, lines := range files {
		if err := g.WriteRaw(folder, name, strings.Join(lines, "\n")+"\n"); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// WriteRaw writes content verbatim to folder/name.
func (g *DatasetGenerator) WriteRaw(folder, name, content string) error {
	dir := filepath.Join(g.baseDir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
}

// CreateEmptyFolder creates a folder without logs.
func (g *DatasetGenerator) CreateEmptyFolder(folder string) (string, error) {
	dir := filepath.Join(g.baseDir, folder)
	return dir, os.MkdirAll(dir, 0755)
}

// Touch sets the modification time of folder.
func (g *DatasetGenerator) Touch(folder string, mtime time.Time) error {
	return os.Chtimes(filepath.Join(g.baseDir, folder), mtime, mtime)
}

// CleanupTestData removes the root directory.
func (g *DatasetGenerator) CleanupTestData() error {
	return os.RemoveAll(g.baseDir)
}

func day(t time.Time) string   { return t.Format("2006-01-02") }
func clock(t time.Time) string { return t.Format("15:04:05") }
func num(v float64) string     { return strconv.FormatFloat(v, 'f', -1, 64) }
