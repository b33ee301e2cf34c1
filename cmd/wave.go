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
	"github.com/spf13/cobra"
)

// waveCmd represents the wave command
var waveCmd = &cobra.Command{
	Use:   "wave",
	Short: "Scalar wave equation solver on a 2D box mesh",
	Long: `Scalar wave equation solver on a 2D box mesh with rigid wall
boundaries and a Gaussian bump initialization, driven by a YAML input
parameters file`,
	Run: func(cmd *cobra.Command, args []string) {
		ip := processInput(cmd)
		ip.Equation = "wave"
		runCase(cmd, ip)
	},
}

func init() {
	rootCmd.AddCommand(waveCmd)
	addCaseFlags(waveCmd)
}
