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

	"github.com/oar-team/oar-scheduler-redox/pkg/common/configs"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform"
)

// validateCmd checks a snapshot end to end without scheduling anything: the
// strict YAML parse, the structural validation and the platform build all
// have to pass before the checksum is printed.
var validateCmd = &cobra.Command{
	Use:   "validate <snapshot.yaml>",
	Short: "Check a platform snapshot and print its checksum",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read snapshot file: %w", err)
		}
		conf, err := configs.LoadPlatformConfig(content)
		if err != nil {
			return fmt.Errorf("snapshot rejected: %w", err)
		}
		bench, err := platform.NewBenchPlatform(conf)
		if err != nil {
			return fmt.Errorf("snapshot rejected: %w", err)
		}
		_, _, count := bench.GetWaitingJobs("", "")
		fmt.Fprintf(cmd.OutOrStdout(), "snapshot ok: %d resources, %d waiting jobs, checksum %s\n",
			bench.GetResourceSet().Count(), count, conf.Checksum)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
