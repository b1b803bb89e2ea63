// Copyright 2026 The multipass Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/steindani/multipass/internal/config"
	"github.com/steindani/multipass/internal/output"
)

var (
	jsonOutput bool
	noColor    bool

	vip = viper.New()
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "multipass",
	Short: "Turn vaccination card QR codes into wallet passes",
	Long:  "Decodes the QR code of a physical immunity card or a digital vaccination certificate, lets you complete the personal details and hands the record to a pass signing service.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		if err := config.Init(cmd, vip); err != nil {
			return err
		}
		c, err := config.Load(vip)
		if err != nil {
			return err
		}
		cfg = c
		config.SetVerbosity(cfg.Verbosity)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Verbose output, repeat for debug logs")
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default multipass.yaml)")

	if err := vip.BindPFlag("verbosity", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(err)
	}
}

func printOptions() output.Options {
	return output.Options{
		JSON:    jsonOutput,
		NoColor: noColor,
		Verbose: cfg.Verbosity > 0,
	}
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
