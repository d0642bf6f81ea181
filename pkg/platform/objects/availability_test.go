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
	"testing"

	"gotest.tools/v3/assert"

	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
)

func TestTimelineExactKeys(t *testing.T) {
	tl := NewAvailabilityTimeline()
	tl.SetWindow(150, rng(0, 49))
	tl.SetWindow(1000, rng(0, 99))

	ids, ok := tl.GetWindow(150)
	assert.Assert(t, ok)
	assert.Assert(t, ids.Equals(rng(0, 49)))

	// no floor or interpolation between recorded timestamps
	_, ok = tl.GetWindow(151)
	assert.Assert(t, !ok)
	_, ok = tl.GetWindow(999)
	assert.Assert(t, !ok)

	assert.Equal(t, 2, tl.Len())
}

func TestTimelineReplacesWindow(t *testing.T) {
	tl := NewAvailabilityTimeline()
	tl.SetWindow(150, rng(0, 49))
	tl.SetWindow(150, rng(50, 99))

	ids, ok := tl.GetWindow(150)
	assert.Assert(t, ok)
	assert.Assert(t, ids.Equals(rng(50, 99)))
	assert.Equal(t, 1, tl.Len())
}

func TestTimelineOrderedIteration(t *testing.T) {
	tl := NewAvailabilityTimeline()
	tl.SetWindow(1000, rng(0, 99))
	tl.SetWindow(150, rng(0, 49))
	tl.SetWindow(500, rng(0, 74))

	assert.DeepEqual(t, []int64{150, 500, 1000}, tl.GetTimes())

	visited := 0
	tl.Ascend(func(time int64, ids procset.ProcSet) bool {
		visited++
		return time < 500
	})
	assert.Equal(t, 2, visited, "iteration stops when the visitor returns false")
}
