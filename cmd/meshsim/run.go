// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/db47h/meshsim"
	"github.com/db47h/meshsim/internal/netlist"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <netlist.yaml>",
	Short: "Simulate a netlist for a number of ticks",
	Long:  `Loads a netlist, applies its initial inputs, runs the requested number of ticks and prints the value of every pin.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticks, _ := cmd.Flags().GetInt("ticks")
		s, doc, _, err := load(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.Close()
		if err = doc.Apply(s); err != nil {
			return err
		}
		r, err := s.Step(ticks)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "tick=%d iterations=%d changed=%d oscillation=%v\n", r.Tick, r.Iterations, r.Changed, r.Oscillation)
		values := s.Snapshot().Values()
		paths := make([]string, 0, len(values))
		for p := range values {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			v := 0
			if values[p] {
				v = 1
			}
			fmt.Fprintf(w, "%s=%d\n", p, v)
		}
		return nil
	},
}

// load builds the netlist at path and installs it in a new simulation.
func load(cmd *cobra.Command, path string, opts ...meshsim.Option) (*meshsim.Simulation, *netlist.Document, *slog.Logger, error) {
	cfg, log, err := setup(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	doc, err := netlist.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}
	d, err := doc.Build()
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := meshsim.New(append([]meshsim.Option{meshsim.WithConfig(cfg), meshsim.WithLogger(log)}, opts...)...)
	if err != nil {
		return nil, nil, nil, err
	}
	if err = s.Reset(d); err != nil {
		s.Close()
		return nil, nil, nil, err
	}
	return s, doc, log, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntP("ticks", "n", 1, "Number of ticks to run")
}
