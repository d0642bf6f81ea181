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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oar-team/oar-scheduler-redox/pkg/common/configs"
	"github.com/oar-team/oar-scheduler-redox/pkg/entrypoint"
	"github.com/oar-team/oar-scheduler-redox/pkg/examples"
	"github.com/oar-team/oar-scheduler-redox/pkg/log"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform"
	"github.com/oar-team/oar-scheduler-redox/pkg/trace"
)

const defaultMockSpec = "2x4x8:64"

// runCmd executes one scheduling pass: load or generate a snapshot, build the
// platform, schedule every waiting job first fit and emit the report.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scheduling pass over a platform snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadSnapshot()
		if err != nil {
			return err
		}

		var tracer trace.BenchTracer
		var traceCtx trace.TraceContext
		if traceMode != "" {
			if traceMode != trace.Sampling && traceMode != trace.OnDemand {
				return fmt.Errorf("invalid trace mode %q, expected %s or %s",
					traceMode, trace.Sampling, trace.OnDemand)
			}
			tracer, err = trace.NewBenchTracer(&trace.BenchTracerParams{Mode: traceMode})
			if err != nil {
				return err
			}
			traceCtx = tracer.NewTraceContext()
			if _, err = trace.StartSpanWrapper(traceCtx, trace.RootLevel, "", ""); err != nil {
				tracer.Close()
				return err
			}
		}

		serviceContext, err := entrypoint.StartAllServicesWithTrace(conf, listenAddr, traceCtx)
		if err != nil {
			if tracer != nil {
				tracer.Close()
			}
			return err
		}
		serviceContext.Tracer = tracer
		defer serviceContext.StopAll()

		rows := examples.RunBenchmark(serviceContext.Platform, traceCtx)
		if traceCtx != nil {
			if err = trace.FinishActiveSpanWrapper(traceCtx, "", ""); err != nil {
				log.Log(log.Entrypoint).Warn("failed to finish the root span",
					zap.Error(err))
			}
		}

		serviceContext.History.Add(&platform.RunRecord{
			RunID:       serviceContext.Platform.GetRunID(),
			CollectedAt: time.Now(),
			JobCount:    len(rows),
			Rows:        rows,
		})

		if err = writeReport(cmd.OutOrStdout(), rows); err != nil {
			return err
		}

		if listenAddr != "" {
			waitForSignal()
		}
		return nil
	},
}

// loadSnapshot resolves the snapshot the pass runs over: a generated one when
// --mock is set, the file given via --config, or the built-in sample.
func loadSnapshot() (*configs.PlatformConfig, error) {
	if mockSpec != "" {
		return parseMockSpec(mockSpec)
	}
	if configFile == "" {
		return configs.LoadPlatformConfig([]byte(configs.DefaultPlatformConfig))
	}
	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return configs.LoadPlatformConfig(content)
}

// parseMockSpec turns a SWITCHESxNODESxCORES:JOBS spec into a generated
// snapshot, for example 2x4x8:64.
func parseMockSpec(spec string) (*configs.PlatformConfig, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid mock spec %q, expected SWITCHESxNODESxCORES:JOBS", spec)
	}
	dims := strings.Split(parts[0], "x")
	if len(dims) != 3 {
		return nil, fmt.Errorf("invalid mock topology %q, expected SWITCHESxNODESxCORES", parts[0])
	}
	sizes := make([]uint32, 3)
	for i, dim := range dims {
		size, err := strconv.ParseUint(dim, 10, 32)
		if err != nil || size == 0 {
			return nil, fmt.Errorf("invalid mock dimension %q in %q", dim, spec)
		}
		sizes[i] = uint32(size)
	}
	jobs, err := strconv.Atoi(parts[1])
	if err != nil || jobs < 0 {
		return nil, fmt.Errorf("invalid mock job count %q in %q", parts[1], spec)
	}
	return examples.GenerateConfig(sizes[0], sizes[1], sizes[2], jobs), nil
}

// writeReport marshals the collected rows, to stdout or to --output.
func writeReport(stdout io.Writer, rows []platform.ReportRow) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if outputFile == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err = os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write the report: %w", err)
	}
	log.Log(log.Entrypoint).Info("report written",
		zap.String("path", outputFile),
		zap.Int("jobs", len(rows)))
	return nil
}

// waitForSignal blocks until an interrupt arrives, keeping the web
// application reachable after the pass finished.
func waitForSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Log(log.Entrypoint).Info("signal received, shutting down",
		zap.String("signal", sig.String()))
}

func init() {
	runCmd.Flags().StringVar(&configFile, "config", "", "platform snapshot file (YAML), omit for the built-in sample")
	runCmd.Flags().StringVar(&mockSpec, "mock", "", "generate a synthetic snapshot, format SWITCHESxNODESxCORES:JOBS")
	runCmd.Flags().Lookup("mock").NoOptDefVal = defaultMockSpec
	runCmd.Flags().StringVar(&outputFile, "output", "", "write the report JSON to this file instead of stdout")
	runCmd.Flags().StringVar(&listenAddr, "listen", "", "serve the web interface on this address and wait for a signal after the pass")
	runCmd.Flags().StringVar(&traceMode, "trace", "", "tracer mode (Sampling, OnDemand), empty disables tracing")
	rootCmd.AddCommand(runCmd)
}
