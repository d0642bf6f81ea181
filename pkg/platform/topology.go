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

package platform

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/oar-team/oar-scheduler-redox/pkg/common"
	"github.com/oar-team/oar-scheduler-redox/pkg/common/configs"
	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
	"github.com/oar-team/oar-scheduler-redox/pkg/log"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform/objects"
)

// BuildResourceSet derives the canonical resource model from a raw topology
// snapshot. Construction fails with InvalidTopology when the default
// intervals are missing, malformed or unsorted, or when a partition does not
// split the default range into disjoint groups that cover it exactly.
func BuildResourceSet(conf configs.ResourceSetConfig) (*objects.ResourceSet, error) {
	defaults, err := buildDefaultIntervals(conf.DefaultIntervals)
	if err != nil {
		return nil, err
	}
	hierarchy, err := buildHierarchy(conf.Hierarchy, defaults)
	if err != nil {
		return nil, err
	}
	availability, err := buildAvailability(conf.AvailableUpto)
	if err != nil {
		return nil, err
	}
	resourceSet := objects.NewResourceSet(defaults, hierarchy, availability)
	log.Log(log.Topology).Info("resource topology built",
		zap.String("defaultIntervals", defaults.String()),
		zap.Strings("partitions", hierarchy.GetPartitionNames()),
		zap.Int("availabilityWindows", availability.Len()))
	return resourceSet, nil
}

func intervalFromConfig(pair configs.IntervalConfig) (procset.Interval, error) {
	if len(pair) != 2 {
		return procset.Interval{}, fmt.Errorf("interval must be a [low,high] pair, got %d values", len(pair))
	}
	if pair[0] > pair[1] {
		return procset.Interval{}, fmt.Errorf("interval [%d,%d] is reversed", pair[0], pair[1])
	}
	return procset.Interval{Low: pair[0], High: pair[1]}, nil
}

func buildDefaultIntervals(pairs []configs.IntervalConfig) (procset.ProcSet, error) {
	if len(pairs) == 0 {
		return procset.ProcSet{}, fmt.Errorf("%w: no default intervals", common.InvalidTopology)
	}
	intervals := make([]procset.Interval, 0, len(pairs))
	var prev procset.Interval
	for i, pair := range pairs {
		iv, err := intervalFromConfig(pair)
		if err != nil {
			return procset.ProcSet{}, fmt.Errorf("%w: default interval %d: %v", common.InvalidTopology, i, err)
		}
		if i > 0 && iv.Low <= prev.High {
			return procset.ProcSet{}, fmt.Errorf("%w: default intervals must be sorted and disjoint, interval %d starts at %d", common.InvalidTopology, i, iv.Low)
		}
		intervals = append(intervals, iv)
		prev = iv
	}
	return procset.NewProcSet(intervals...), nil
}

func buildHierarchy(conf configs.HierarchyConfig, defaults procset.ProcSet) (*objects.Hierarchy, error) {
	hierarchy := objects.NewHierarchy()

	names := make([]string, 0, len(conf.Partitions))
	for name := range conf.Partitions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		groups := make([]procset.ProcSet, 0, len(conf.Partitions[name]))
		for gi, group := range conf.Partitions[name] {
			intervals := make([]procset.Interval, 0, len(group))
			for _, pair := range group {
				iv, err := intervalFromConfig(pair)
				if err != nil {
					return nil, fmt.Errorf("%w: partition %s group %d: %v", common.InvalidTopology, name, gi, err)
				}
				intervals = append(intervals, iv)
			}
			ids := procset.NewProcSet(intervals...)
			if ids.IsEmpty() {
				return nil, fmt.Errorf("%w: partition %s group %d is empty", common.InvalidTopology, name, gi)
			}
			groups = append(groups, ids)
		}

		union := procset.NewProcSet()
		for gi, group := range groups {
			if !union.Intersect(group).IsEmpty() {
				return nil, fmt.Errorf("%w: partition %s group %d overlaps an earlier group", common.InvalidTopology, name, gi)
			}
			union = union.Union(group)
		}
		if !union.Equals(defaults) {
			return nil, fmt.Errorf("%w: partition %s covers %s, not the default range %s", common.InvalidTopology, name, union.String(), defaults.String())
		}

		if err := hierarchy.AddPartition(name, groups); err != nil {
			return nil, fmt.Errorf("%w: %v", common.InvalidTopology, err)
		}
	}

	if conf.UnitPartition != "" {
		if err := hierarchy.SynthesizeUnitPartition(conf.UnitPartition, defaults); err != nil {
			return nil, fmt.Errorf("%w: %v", common.InvalidTopology, err)
		}
	}
	return hierarchy, nil
}

func buildAvailability(entries []configs.AvailabilityConfig) (*objects.AvailabilityTimeline, error) {
	timeline := objects.NewAvailabilityTimeline()
	for _, entry := range entries {
		intervals := make([]procset.Interval, 0, len(entry.IDs))
		for _, pair := range entry.IDs {
			iv, err := intervalFromConfig(pair)
			if err != nil {
				return nil, fmt.Errorf("%w: availability window at time %d: %v", common.InvalidTopology, entry.Time, err)
			}
			intervals = append(intervals, iv)
		}
		timeline.SetWindow(entry.Time, procset.NewProcSet(intervals...))
	}
	return timeline, nil
}
