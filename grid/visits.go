package grid

import (
	"encoding/json"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Visits counts how often each position of the grid was entered
type Visits struct {
	Counts [][]int `json:"counts"`
	Height int     `json:"height"`
	Width  int     `json:"width"`
}

var _ plotter.GridXYZ = &Visits{}

func NewVisits(height, width int) *Visits {
	counts := make([][]int, height)
	for i := range counts {
		counts[i] = make([]int, width)
	}
	return &Visits{
		Counts: counts,
		Height: height,
		Width:  width,
	}
}

func (v *Visits) Add(i, j int) {
	v.Counts[i][j] += 1
}

func (v *Visits) Get(i, j int) int {
	return v.Counts[i][j]
}

func (v *Visits) Dims() (int, int) {
	return v.Width, v.Height
}

func (v *Visits) Z(c, r int) float64 {
	return float64(v.Counts[r][c])
}

func (v *Visits) X(c int) float64 {
	return float64(c)
}

func (v *Visits) Y(r int) float64 {
	return float64(r)
}

func (v *Visits) Min() float64 {
	return 0.0
}

// Max is at least 1 so that the heat map has a range
func (v *Visits) Max() float64 {
	max := 1
	for _, row := range v.Counts {
		for _, count := range row {
			if count > max {
				max = count
			}
		}
	}
	return float64(max)
}

// Record writes the counts as json to path
func (v *Visits) Record(path string) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0644)
}

// Plot saves a heat map of the visits to path
func (v *Visits) Plot(title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "column"
	p.Y.Label.Text = "row"
	p.Add(plotter.NewHeatMap(v, palette.Heat(20, 1)))
	return p.Save(4*vg.Inch, 4*vg.Inch, path)
}
