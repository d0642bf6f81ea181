/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/oar-team/oar-scheduler-redox/pkg/log"
)

var (
	// CLI flags shared by the subcommands
	configFile string // platform snapshot to load, empty selects the built-in sample
	mockSpec   string // synthetic snapshot spec, SWITCHESxNODESxCORES:JOBS
	outputFile string // report destination, empty prints to stdout
	listenAddr string // web application address, empty keeps the web application off
	traceMode  string // tracer mode, Sampling or OnDemand, empty disables tracing
	logLevel   string // minimum zap level applied to all loggers
)

var rootCmd = &cobra.Command{
	Use:   "schedbench",
	Short: "Benchmark harness for batch scheduling passes",
	Long: `schedbench loads a platform snapshot (resources, hierarchy, availability
and waiting jobs), runs one scheduling pass with the built-in first fit
engine and prints the collected report as JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevel == "" {
			return nil
		}
		level, err := zapcore.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		log.InitAndSetLevel(level)
		return nil
	},
}

// init sets up the flags every subcommand honours
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum level for all loggers (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
