/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/cfdlabs/gofluid/InputParameters"
	"github.com/cfdlabs/gofluid/solver"
)

// eulerCmd represents the euler command
var eulerCmd = &cobra.Command{
	Use:   "euler",
	Short: "Compressible Euler solver on a 2D box mesh",
	Long: `Compressible Euler solver on a 2D box mesh with selectable
initialization (vortex, lump, sod, pulse, uniform) and boundary
conditions, driven by a YAML input parameters file`,
	Run: func(cmd *cobra.Command, args []string) {
		ip := processInput(cmd)
		ip.Equation = "euler"
		runCase(cmd, ip)
	},
}

func init() {
	rootCmd.AddCommand(eulerCmd)
	addCaseFlags(eulerCmd)
}

func addCaseFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- CFL\n\t- FinalTime\n\t- InitType")
	cmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	cmd.Flags().IntP("restartStep", "r", 0, "resume from the restart snapshot written at this step")
	cmd.Flags().IntP("maxIterations", "m", 0, "stop after this many steps regardless of final time")
	cmd.Flags().Bool("profile", false, "write a CPU profile to the working directory")
}

func processInput(cmd *cobra.Command) (ip *InputParameters.Parameters) {
	var (
		err    error
		icFile string
	)
	if icFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
		panic(err)
	}
	if len(icFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Isentropic Vortex"
CFL: 0.45
InitType: vortex
PolynomialOrder: 3
FinalTime: 1.
Nx: 8
Ny: 8
BCs:
  all: prescribed
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(icFile); err != nil {
		panic(err)
	}
	ip = InputParameters.NewParameters()
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	ip.Graph, _ = cmd.Flags().GetBool("graph")
	if rs, _ := cmd.Flags().GetInt("restartStep"); rs > 0 {
		ip.RestartStep = rs
	}
	if mi, _ := cmd.Flags().GetInt("maxIterations"); mi > 0 {
		ip.MaxIterations = mi
	}
	return
}

func runCase(cmd *cobra.Command, ip *InputParameters.Parameters) {
	if prof, _ := cmd.Flags().GetBool("profile"); prof {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	sim, err := solver.New(ip)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	if err = sim.Run(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
}
