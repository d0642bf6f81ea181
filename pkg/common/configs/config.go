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
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/oar-team/oar-scheduler-redox/pkg/log"
)

// Default simulation clock values. A benchmark pass runs against a pinned
// clock so repeated runs over the same snapshot are bit for bit reproducible.
const (
	DefaultSimulationNow     = int64(0)
	DefaultSimulationHorizon = int64(1000000)
)

// PlatformConfig is the typed form of one benchmark input snapshot: the
// resource topology, the pending job records and the pinned clocks.
type PlatformConfig struct {
	ResourceSet   ResourceSetConfig `yaml:"resource_set"`
	ScheduledJobs []yaml.Node       `yaml:"scheduled_jobs,omitempty"` // opaque to this adapter, currently unused
	WaitingJobs   []JobConfig       `yaml:"waiting_jobs,omitempty"`
	Simulation    SimulationConfig  `yaml:"simulation,omitempty"`
	Checksum      string            `yaml:"checksum,omitempty"`
}

// SimulationConfig pins the clocks of one pass. A zero horizon selects the
// default; now defaults to zero.
type SimulationConfig struct {
	Now     int64 `yaml:"now,omitempty"`
	Horizon int64 `yaml:"horizon,omitempty"`
}

// ResourceSetConfig describes the raw topology: the global id bounds as an
// ordered interval list, the hierarchy partitions and the availability
// windows.
type ResourceSetConfig struct {
	DefaultIntervals []IntervalConfig     `yaml:"default_intervals"`
	Hierarchy        HierarchyConfig      `yaml:"hierarchy,omitempty"`
	AvailableUpto    []AvailabilityConfig `yaml:"available_upto,omitempty"`
}

// IntervalConfig is one [low,high] pair as written in a snapshot.
type IntervalConfig []uint32

// GroupConfig is one hierarchy group: the id set of a switch, node or
// similar unit, written as a list of [low,high] pairs.
type GroupConfig []IntervalConfig

// HierarchyConfig holds the named partitions and the optional marker
// requesting synthesis of a unit partition of singleton ids.
type HierarchyConfig struct {
	Partitions    map[string][]GroupConfig `yaml:"partitions,omitempty"`
	UnitPartition string                   `yaml:"unit_partition,omitempty"`
}

// AvailabilityConfig keys one timestamp to the ids available at that time.
type AvailabilityConfig struct {
	Time int64            `yaml:"time"`
	IDs  []IntervalConfig `yaml:"ids"`
}

// JobConfig is one raw pending job record.
type JobConfig struct {
	ID        int64            `yaml:"id"`
	Queue     string           `yaml:"queue,omitempty"`
	Name      string           `yaml:"name,omitempty"`
	Project   string           `yaml:"project,omitempty"`
	User      string           `yaml:"user,omitempty"`
	Moldables []MoldableConfig `yaml:"moldables,omitempty"`
}

// MoldableConfig is one alternative resource/time shape of a job. The order
// of the moldables and of their requests is engine visible and preserved.
type MoldableConfig struct {
	ID       int64           `yaml:"id"`
	Walltime int64           `yaml:"walltime"`
	Requests []RequestConfig `yaml:"requests,omitempty"`
}

// RequestConfig is one hierarchy request: resource counts per level,
// restricted to the filter id set (empty filter means the whole range).
type RequestConfig struct {
	Filter []IntervalConfig `yaml:"filter,omitempty"`
	Levels []LevelConfig    `yaml:"levels"`
}

// LevelConfig requests count groups from the named hierarchy partition.
type LevelConfig struct {
	Partition string `yaml:"partition"`
	Count     uint32 `yaml:"count"`
}

// LoadPlatformConfig parses, validates and fingerprints one snapshot.
func LoadPlatformConfig(content []byte) (*PlatformConfig, error) {
	conf, err := ParseAndValidateConfig(content)
	if err != nil {
		return nil, err
	}
	// Create a sha256 checksum for this validated config
	SetChecksum(content, conf)
	return conf, err
}

func SetChecksum(content []byte, conf *PlatformConfig) {
	noChecksumContent := GetConfigurationString(content)
	conf.Checksum = fmt.Sprintf("%X", sha256.Sum256([]byte(noChecksumContent)))
}

func ParseAndValidateConfig(content []byte) (*PlatformConfig, error) {
	conf := &PlatformConfig{}
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true) // Enable strict unmarshaling behavior
	err := decoder.Decode(conf)
	if err != nil && !errors.Is(err, io.EOF) { // empty content may have EOF error, skip it
		log.Log(log.Config).Error("failed to parse platform snapshot",
			zap.Error(err))
		return nil, err
	}
	conf.applyDefaults()
	// validate the config
	err = Validate(conf)
	if err != nil {
		log.Log(log.Config).Error("platform snapshot validation failed",
			zap.Error(err))
		return nil, err
	}
	return conf, nil
}

func (conf *PlatformConfig) applyDefaults() {
	if conf.Simulation.Horizon == 0 {
		conf.Simulation.Horizon = DefaultSimulationHorizon
	}
}

func GetConfigurationString(requestBytes []byte) string {
	conf := string(requestBytes)
	checksum := "checksum: "
	checksumLength := 64 + len(checksum)
	if strings.Contains(conf, checksum) {
		checksum += strings.Split(conf, checksum)[1]
		checksum = strings.TrimRight(checksum, "\n")
		if len(checksum) > checksumLength {
			checksum = checksum[:checksumLength]
		}
	}
	return strings.ReplaceAll(conf, checksum, "")
}

// DefaultPlatformConfig contains the default snapshot; used if no other is provided
var DefaultPlatformConfig = `
resource_set:
  default_intervals:
    - [0, 31]
  hierarchy:
    partitions:
      switches:
        - [[0, 15]]
        - [[16, 31]]
      nodes:
        - [[0, 7]]
        - [[8, 15]]
        - [[16, 23]]
        - [[24, 31]]
    unit_partition: cores
  available_upto:
    - time: 1000000
      ids: [[0, 31]]
waiting_jobs: []
`
