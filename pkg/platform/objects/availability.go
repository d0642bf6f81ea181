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
	"github.com/google/btree"

	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
)

type windowRef struct {
	time int64
}

func (wr windowRef) Less(than btree.Item) bool {
	other, ok := than.(windowRef)
	if !ok {
		return false
	}
	return wr.time < other.time
}

// AvailabilityTimeline stores the ids available up to each timestamp. Entries
// are keyed by their exact timestamp: no interpolation or merging happens
// here, consumers decide how to interpret the windows. A btree keeps the
// timestamps ordered for iteration.
type AvailabilityTimeline struct {
	windows map[int64]procset.ProcSet
	times   *btree.BTree
}

func NewAvailabilityTimeline() *AvailabilityTimeline {
	return &AvailabilityTimeline{
		windows: make(map[int64]procset.ProcSet),
		times:   btree.New(7),
	}
}

// SetWindow records the ids available up to the given timestamp, replacing
// any window already keyed at that exact timestamp.
func (at *AvailabilityTimeline) SetWindow(time int64, ids procset.ProcSet) {
	at.windows[time] = ids
	at.times.ReplaceOrInsert(windowRef{time: time})
}

// GetWindow returns the ids keyed at the exact timestamp.
func (at *AvailabilityTimeline) GetWindow(time int64) (procset.ProcSet, bool) {
	ids, ok := at.windows[time]
	return ids, ok
}

// Ascend visits the windows in increasing timestamp order until the visitor
// returns false.
func (at *AvailabilityTimeline) Ascend(visit func(time int64, ids procset.ProcSet) bool) {
	at.times.Ascend(func(item btree.Item) bool {
		t := item.(windowRef).time
		return visit(t, at.windows[t])
	})
}

// GetTimes returns the recorded timestamps in increasing order.
func (at *AvailabilityTimeline) GetTimes() []int64 {
	times := make([]int64, 0, at.times.Len())
	at.Ascend(func(time int64, _ procset.ProcSet) bool {
		times = append(times, time)
		return true
	})
	return times
}

func (at *AvailabilityTimeline) Len() int {
	return len(at.windows)
}
