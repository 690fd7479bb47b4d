// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.
package main

import (
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"firuclid/ir"
	"firuclid/translate"
)

func main() {
	defer glog.Flush()

	rootCmd := &cobra.Command{
		Use:   "firuclid",
		Short: "Translate a ground, single-clock hardware IR circuit into a uclid5-style transition system",
	}

	var output string
	var bmcOverride int
	var verbose bool

	translateCmd := &cobra.Command{
		Use:   "translate [circuit.json]",
		Short: "Translate a circuit JSON file and print the target module text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(args[0], output, bmcOverride, verbose)
		},
	}
	translateCmd.Flags().StringVarP(&output, "output", "o", "", "Write the translated module to this file instead of stdout")
	translateCmd.Flags().IntVar(&bmcOverride, "bmc-steps-override", -1, "Override the BMC unroll step count from the input's annotations, if any")
	translateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log a trace of the annotations consumed during translation")

	rootCmd.AddCommand(translateCmd)
	if err := rootCmd.Execute(); err != nil {
		glog.Errorf("%+v", err)
		os.Exit(1)
	}
}

func runTranslate(path string, output string, bmcOverride int, verbose bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	circuit, err := ir.DecodeCircuit(data)
	if err != nil {
		return err
	}

	if bmcOverride >= 0 {
		applyBMCOverride(circuit, uint(bmcOverride))
	}
	if verbose {
		traceAnnotations(circuit)
	}

	text, err := translate.Translate(circuit)
	if err != nil {
		glog.Errorf("translation failed: %+v", err)
		return err
	}

	if output == "" {
		os.Stdout.WriteString(text)
		return nil
	}
	return os.WriteFile(output, []byte(text), 0644)
}

// applyBMCOverride replaces the circuit's BMC annotation, if any, with one
// carrying steps; a circuit with no BMC annotation gets one appended, so
// --bmc-steps-override always takes effect (SPEC_FULL.md §9 supplemental
// feature).
func applyBMCOverride(circuit *ir.Circuit, steps uint) {
	for _, a := range circuit.Annotations {
		if bmc, ok := a.(*ir.BMC); ok {
			bmc.Steps = steps
			return
		}
	}
	circuit.Annotations = append(circuit.Annotations, &ir.BMC{Steps: steps})
}

func traceAnnotations(circuit *ir.Circuit) {
	for _, a := range circuit.Annotations {
		glog.Infof("annotation: %s", a)
	}
}
