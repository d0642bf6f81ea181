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

	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
)

// ResourceSet is the canonical resource model one pass schedules against:
// the default id range, the hierarchy partitions over it and the
// availability windows. Built once, read-only afterwards.
type ResourceSet struct {
	defaultIntervals procset.ProcSet
	hierarchy        *Hierarchy
	availability     *AvailabilityTimeline
}

func NewResourceSet(defaultIntervals procset.ProcSet, hierarchy *Hierarchy, availability *AvailabilityTimeline) *ResourceSet {
	return &ResourceSet{
		defaultIntervals: defaultIntervals,
		hierarchy:        hierarchy,
		availability:     availability,
	}
}

// GetDefaultIntervals returns the global id range of the platform.
func (rs *ResourceSet) GetDefaultIntervals() procset.ProcSet {
	return rs.defaultIntervals
}

func (rs *ResourceSet) GetHierarchy() *Hierarchy {
	return rs.hierarchy
}

func (rs *ResourceSet) GetAvailability() *AvailabilityTimeline {
	return rs.availability
}

// Begin returns the lowest resource id of the default range.
func (rs *ResourceSet) Begin() uint32 {
	return rs.defaultIntervals.Begin()
}

// End returns the highest resource id of the default range.
func (rs *ResourceSet) End() uint32 {
	return rs.defaultIntervals.End()
}

// Count returns the number of resource ids in the default range.
func (rs *ResourceSet) Count() int64 {
	return rs.defaultIntervals.Count()
}

func (rs *ResourceSet) String() string {
	return fmt.Sprintf("defaultIntervals %s, partitions %d, availability windows %d",
		rs.defaultIntervals.String(), len(rs.hierarchy.GetPartitionNames()), rs.availability.Len())
}
