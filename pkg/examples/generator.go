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

package examples

import (
	"fmt"

	"github.com/oar-team/oar-scheduler-redox/pkg/common/configs"
)

// walltimes the generated jobs cycle through, in seconds
var mockWalltimes = []int64{300, 900, 1800, 3600}

// GenerateConfig builds a synthetic snapshot: `switches` switches of
// `nodesPerSwitch` nodes of `coresPerNode` cores each, a synthesized cores
// unit partition, every id available until the default horizon, and `jobs`
// single-moldable waiting jobs cycling through a few request shapes.
// Generation is deterministic so repeated runs are comparable.
func GenerateConfig(switches, nodesPerSwitch, coresPerNode uint32, jobs int) *configs.PlatformConfig {
	total := switches * nodesPerSwitch * coresPerNode

	conf := &configs.PlatformConfig{
		ResourceSet: configs.ResourceSetConfig{
			DefaultIntervals: []configs.IntervalConfig{{0, total - 1}},
			Hierarchy: configs.HierarchyConfig{
				Partitions: map[string][]configs.GroupConfig{
					"switches": generateGroups(total, nodesPerSwitch*coresPerNode),
					"nodes":    generateGroups(total, coresPerNode),
				},
				UnitPartition: "cores",
			},
			AvailableUpto: []configs.AvailabilityConfig{
				{Time: configs.DefaultSimulationHorizon, IDs: []configs.IntervalConfig{{0, total - 1}}},
			},
		},
		Simulation: configs.SimulationConfig{
			Now:     0,
			Horizon: configs.DefaultSimulationHorizon,
		},
	}

	for i := 1; i <= jobs; i++ {
		conf.WaitingJobs = append(conf.WaitingJobs, generateJob(int64(i), i))
	}
	return conf
}

// generateGroups cuts [0, total) into consecutive groups of `size` ids.
// total is a multiple of size by construction.
func generateGroups(total, size uint32) []configs.GroupConfig {
	groups := make([]configs.GroupConfig, 0, total/size)
	for low := uint32(0); low < total; low += size {
		groups = append(groups, configs.GroupConfig{{low, low + size - 1}})
	}
	return groups
}

// generateJob emits one single-moldable job, cycling through three request
// shapes: one node, one switch with two nodes inside, and four loose cores.
func generateJob(id int64, seq int) configs.JobConfig {
	var levels []configs.LevelConfig
	switch seq % 3 {
	case 0:
		levels = []configs.LevelConfig{
			{Partition: "switches", Count: 1},
			{Partition: "nodes", Count: 2},
		}
	case 1:
		levels = []configs.LevelConfig{
			{Partition: "nodes", Count: 1},
		}
	default:
		levels = []configs.LevelConfig{
			{Partition: "cores", Count: 4},
		}
	}

	return configs.JobConfig{
		ID:      id,
		Queue:   "default",
		Name:    fmt.Sprintf("mock-%d", id),
		Project: "benchmarks",
		User:    "bench",
		Moldables: []configs.MoldableConfig{
			{
				ID:       id*10 + 1,
				Walltime: mockWalltimes[seq%len(mockWalltimes)],
				Requests: []configs.RequestConfig{
					{Levels: levels},
				},
			},
		},
	}
}
