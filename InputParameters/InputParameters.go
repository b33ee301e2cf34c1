package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type Parameters struct {
	Title           string  `yaml:"Title"`
	Equation        string  `yaml:"Equation"` // euler or wave
	CFL             float64 `yaml:"CFL"`
	ConstantCFL     bool    `yaml:"ConstantCFL"` // recompute dt from CFL every step
	DT              float64 `yaml:"DT"`          // fixed timestep when ConstantCFL is false
	FinalTime       float64 `yaml:"FinalTime"`
	PolynomialOrder int     `yaml:"PolynomialOrder"`

	// Box mesh extents and resolution
	Nx   int     `yaml:"Nx"`
	Ny   int     `yaml:"Ny"`
	Xmin float64 `yaml:"Xmin"`
	Xmax float64 `yaml:"Xmax"`
	Ymin float64 `yaml:"Ymin"`
	Ymax float64 `yaml:"Ymax"`

	// Gas properties
	Gamma    float64 `yaml:"Gamma"`
	GasConst float64 `yaml:"GasConst"`

	WaveSpeed float64 `yaml:"WaveSpeed"`

	// Initialization
	InitType       string     `yaml:"InitType"` // vortex, lump, sod, pulse, uniform
	InitCenter     [2]float64 `yaml:"InitCenter"`
	InitVelocity   [2]float64 `yaml:"InitVelocity"`
	InitWidth      float64    `yaml:"InitWidth"`
	SourceOmega    float64    `yaml:"SourceOmega"` // time modulation of the wave bump
	VortexBeta     float64    `yaml:"VortexBeta"`
	Rho0           float64    `yaml:"Rho0"`
	RhoAmp         float64    `yaml:"RhoAmp"`
	P0             float64    `yaml:"P0"`
	XSplit         float64    `yaml:"XSplit"`
	PulseAmplitude float64    `yaml:"PulseAmplitude"`

	// BCs maps a mesh boundary tag (or "all") to a condition kind:
	// prescribed, slip or dummy
	BCs map[string]string `yaml:"BCs"`

	NumParts int `yaml:"NumParts"`

	// Output control
	LogInterval     int    `yaml:"LogInterval"`
	VizInterval     int    `yaml:"VizInterval"`
	RestartInterval int    `yaml:"RestartInterval"`
	RestartStep     int    `yaml:"RestartStep"` // resume from this snapshot step
	CaseName        string `yaml:"CaseName"`
	OutputDir       string `yaml:"OutputDir"`
	MaxIterations   int    `yaml:"MaxIterations"`
	Graph           bool   `yaml:"Graph"`
}

// NewParameters returns the defaults for a run, overridden by Parse.
func NewParameters() *Parameters {
	return &Parameters{
		Title:           "gofluid",
		Equation:        "euler",
		CFL:             0.45,
		ConstantCFL:     true,
		FinalTime:       1,
		PolynomialOrder: 3,
		Nx:              8, Ny: 8,
		Xmin: -5, Xmax: 5, Ymin: -5, Ymax: 5,
		Gamma:        1.4,
		GasConst:     287.1,
		WaveSpeed:    1,
		InitType:     "vortex",
		InitCenter:   [2]float64{5, 0},
		InitVelocity: [2]float64{1, 0},
		InitWidth:    0.1,
		SourceOmega:  3,
		VortexBeta:   5,
		Rho0:         1,
		RhoAmp:       1,
		P0:           1,
		BCs:          map[string]string{"all": "prescribed"},
		NumParts:     1,
		LogInterval:  10,
		CaseName:     "run",
		OutputDir:    ".",
	}
}

func (ip *Parameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return fmt.Errorf("input file: %w", err)
	}
	return ip.validate()
}

func (ip *Parameters) validate() error {
	switch {
	case ip.PolynomialOrder < 1:
		return fmt.Errorf("PolynomialOrder must be at least 1, have %d", ip.PolynomialOrder)
	case ip.Nx < 1 || ip.Ny < 1:
		return fmt.Errorf("mesh resolution must be positive, have %d x %d", ip.Nx, ip.Ny)
	case ip.Xmax <= ip.Xmin || ip.Ymax <= ip.Ymin:
		return fmt.Errorf("empty mesh extent [%g,%g] x [%g,%g]",
			ip.Xmin, ip.Xmax, ip.Ymin, ip.Ymax)
	case ip.ConstantCFL && ip.CFL <= 0:
		return fmt.Errorf("ConstantCFL needs a positive CFL, have %g", ip.CFL)
	case !ip.ConstantCFL && ip.DT <= 0:
		return fmt.Errorf("need a positive DT when ConstantCFL is off, have %g", ip.DT)
	case ip.NumParts < 1:
		return fmt.Errorf("NumParts must be at least 1, have %d", ip.NumParts)
	}
	return nil
}

func (ip *Parameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Equation\n", ip.Equation)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%s]\t\t= InitType\n", ip.InitType)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	fmt.Printf("[%d x %d]\t\t\t= Mesh Cells\n", ip.Nx, ip.Ny)
	fmt.Printf("[%d]\t\t\t\t= Parallel Partitions\n", ip.NumParts)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
