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

package objects

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
	"github.com/oar-team/oar-scheduler-redox/pkg/log"
)

// LevelRequest asks for a number of groups from one named partition.
type LevelRequest struct {
	Partition string
	Count     uint32
}

// HierarchyRequest is one admissible allocation shape: the ordered level
// requests are resolved top down, restricted to the ids in Filter.
type HierarchyRequest struct {
	Filter procset.ProcSet
	Levels []LevelRequest
}

// Hierarchy holds the named partitions of the resource id space. Each
// partition is an ordered list of disjoint groups. The unit partition is a
// virtual partition whose groups are the individual ids; it has no stored
// groups and is resolved by claiming ids directly.
type Hierarchy struct {
	partitions    map[string][]procset.ProcSet
	unitPartition string
}

func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		partitions: make(map[string][]procset.ProcSet),
	}
}

// AddPartition registers a named partition with its groups in placement
// order. Names must be unique across partitions, the unit partition included.
func (h *Hierarchy) AddPartition(name string, groups []procset.ProcSet) error {
	if h.HasPartition(name) {
		return fmt.Errorf("a partition with the name %s already exists", name)
	}
	h.partitions[name] = groups
	return nil
}

// AddUnitPartition registers the name of the virtual unitary partition.
func (h *Hierarchy) AddUnitPartition(name string) error {
	if h.HasPartition(name) {
		return fmt.Errorf("a partition with the name %s already exists", name)
	}
	if h.unitPartition != "" {
		return fmt.Errorf("a unit partition is already defined")
	}
	h.unitPartition = name
	return nil
}

// SynthesizeUnitPartition registers the unit partition together with its
// singleton groups, one per id. The groups make the partition observable
// like any other, resolution still short-circuits to claiming ids directly.
func (h *Hierarchy) SynthesizeUnitPartition(name string, ids procset.ProcSet) error {
	if err := h.AddUnitPartition(name); err != nil {
		return err
	}
	singletons := make([]procset.ProcSet, 0, ids.Count())
	for _, iv := range ids.Intervals() {
		for i := iv.Low; ; i++ {
			singletons = append(singletons, procset.NewSingleProcSet(i, i))
			if i == iv.High {
				break
			}
		}
	}
	h.partitions[name] = singletons
	return nil
}

func (h *Hierarchy) HasPartition(name string) bool {
	if _, ok := h.partitions[name]; ok {
		return true
	}
	return name != "" && name == h.unitPartition
}

// GetPartition returns a copy of the named partition's groups, nil when the
// partition is not defined. The unit partition has no stored groups.
func (h *Hierarchy) GetPartition(name string) []procset.ProcSet {
	groups, ok := h.partitions[name]
	if !ok {
		return nil
	}
	copied := make([]procset.ProcSet, len(groups))
	copy(copied, groups)
	return copied
}

// GetPartitionNames returns the partition names in sorted order. A purely
// virtual unit partition has no stored groups and is not listed.
func (h *Hierarchy) GetPartitionNames() []string {
	names := make([]string, 0, len(h.partitions))
	for name := range h.partitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (h *Hierarchy) GetUnitPartition() string {
	return h.unitPartition
}

// Request resolves a set of allocation shapes against the available ids and
// returns the union of the resolved groups. All requests must resolve: a
// single unsatisfiable request fails the whole call. Requests are resolved
// independently, each against the full available set restricted to its own
// filter.
func (h *Hierarchy) Request(available procset.ProcSet, requests []HierarchyRequest) (procset.ProcSet, bool) {
	result := procset.NewProcSet()
	for _, req := range requests {
		found, ok := h.FindScattered(available.Intersect(req.Filter), req.Levels)
		if !ok {
			return procset.NewProcSet(), false
		}
		result = result.Union(found)
	}
	return result, true
}

// FindScattered walks the level requests top down. At each level it takes
// the first Count groups that can satisfy the remaining levels inside the
// available ids, scanning groups in partition order. A level naming the unit
// partition claims ids directly instead of iterating groups.
func (h *Hierarchy) FindScattered(available procset.ProcSet, levels []LevelRequest) (procset.ProcSet, bool) {
	if len(levels) == 0 {
		return procset.NewProcSet(), false
	}
	name, count := levels[0].Partition, levels[0].Count
	if name != "" && name == h.unitPartition {
		return available.ClaimCores(count)
	}

	groups, ok := h.partitions[name]
	if !ok {
		log.Log(log.Topology).Warn("no hierarchy partition matching requested level",
			zap.String("partition", name))
		return procset.NewProcSet(), false
	}

	result := procset.NewProcSet()
	taken := uint32(0)
	for _, group := range groups {
		if taken == count {
			break
		}
		if len(levels) > 1 {
			sub, found := h.FindScattered(group.Intersect(available), levels[1:])
			if !found {
				continue
			}
			result = result.Union(sub)
			taken++
		} else if group.IsSubsetOf(available) {
			result = result.Union(group)
			taken++
		}
	}
	if taken < count {
		return procset.NewProcSet(), false
	}
	return result, true
}
