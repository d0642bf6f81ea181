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

package configs

import (
	"fmt"
)

// Validate checks the shape of a parsed snapshot: intervals are [low,high]
// pairs, partition names are set, level requests carry a count. Semantic
// topology checks (coverage, ordering) belong to the topology builder, job
// semantics to the translator; this keeps shape failures at parse time and
// domain failures with their sentinel errors.
func Validate(conf *PlatformConfig) error {
	if err := checkResourceSet(&conf.ResourceSet); err != nil {
		return err
	}
	for i := range conf.WaitingJobs {
		if err := checkJob(&conf.WaitingJobs[i]); err != nil {
			return err
		}
	}
	if conf.Simulation.Horizon < 0 {
		return fmt.Errorf("simulation horizon must not be negative: %d", conf.Simulation.Horizon)
	}
	return nil
}

func checkResourceSet(conf *ResourceSetConfig) error {
	for _, pair := range conf.DefaultIntervals {
		if err := checkInterval(pair); err != nil {
			return fmt.Errorf("default_intervals: %w", err)
		}
	}
	for name, groups := range conf.Hierarchy.Partitions {
		if name == "" {
			return fmt.Errorf("hierarchy partition with empty name")
		}
		if len(groups) == 0 {
			return fmt.Errorf("hierarchy partition '%s' has no groups", name)
		}
		for _, group := range groups {
			if len(group) == 0 {
				return fmt.Errorf("hierarchy partition '%s' contains an empty group", name)
			}
			for _, pair := range group {
				if err := checkInterval(pair); err != nil {
					return fmt.Errorf("hierarchy partition '%s': %w", name, err)
				}
			}
		}
	}
	if unit := conf.Hierarchy.UnitPartition; unit != "" {
		if _, ok := conf.Hierarchy.Partitions[unit]; ok {
			return fmt.Errorf("unit partition '%s' collides with a defined partition", unit)
		}
	}
	for _, avail := range conf.AvailableUpto {
		if len(avail.IDs) == 0 {
			return fmt.Errorf("available_upto entry at time %d has no ids", avail.Time)
		}
		for _, pair := range avail.IDs {
			if err := checkInterval(pair); err != nil {
				return fmt.Errorf("available_upto entry at time %d: %w", avail.Time, err)
			}
		}
	}
	return nil
}

func checkJob(job *JobConfig) error {
	for _, moldable := range job.Moldables {
		for _, request := range moldable.Requests {
			for _, pair := range request.Filter {
				if err := checkInterval(pair); err != nil {
					return fmt.Errorf("job %d moldable %d filter: %w", job.ID, moldable.ID, err)
				}
			}
			if len(request.Levels) == 0 {
				return fmt.Errorf("job %d moldable %d has a request without levels", job.ID, moldable.ID)
			}
			for _, level := range request.Levels {
				if level.Partition == "" {
					return fmt.Errorf("job %d moldable %d requests an unnamed hierarchy level", job.ID, moldable.ID)
				}
				if level.Count == 0 {
					return fmt.Errorf("job %d moldable %d requests zero groups of level '%s'", job.ID, moldable.ID, level.Partition)
				}
			}
		}
	}
	return nil
}

func checkInterval(pair IntervalConfig) error {
	if len(pair) != 2 {
		return fmt.Errorf("interval must be a [low,high] pair, got %d values", len(pair))
	}
	return nil
}
