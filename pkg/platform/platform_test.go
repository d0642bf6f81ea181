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
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/oar-team/oar-scheduler-redox/pkg/common"
	"github.com/oar-team/oar-scheduler-redox/pkg/common/configs"
	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform/objects"
)

func rng(low, high uint32) procset.ProcSet {
	return procset.NewProcSet(procset.Interval{Low: low, High: high})
}

func testPlatformConfig() *configs.PlatformConfig {
	return &configs.PlatformConfig{
		ResourceSet: validResourceSetConfig(),
		WaitingJobs: []configs.JobConfig{jobRecord(1), jobRecord(2), jobRecord(3)},
		Simulation:  configs.SimulationConfig{Now: 0, Horizon: 1000000},
	}
}

func newTestPlatform(t *testing.T) *BenchPlatform {
	bp, err := NewBenchPlatform(testPlatformConfig())
	assert.NilError(t, err, "platform construction failed")
	return bp
}

func TestNewBenchPlatform(t *testing.T) {
	bp := newTestPlatform(t)
	assert.Assert(t, bp.GetRunID() != "", "run id not assigned")
	assert.Equal(t, bp.CurrentPassState(), objects.Ready.String())
	assert.Equal(t, bp.GetCurrentTime(), int64(0))
	assert.Equal(t, bp.GetMaxTime(), int64(1000000))
	assert.Assert(t, bp.GetResourceSet() == bp.GetResourceSet(), "resource set must be the same snapshot for the pass")
	assert.Equal(t, len(bp.GetAssignments()), 0)
}

func TestNewBenchPlatformFailures(t *testing.T) {
	badTopology := testPlatformConfig()
	badTopology.ResourceSet.DefaultIntervals = nil
	bp, err := NewBenchPlatform(badTopology)
	assert.Assert(t, bp == nil)
	assert.Assert(t, errors.Is(err, common.InvalidTopology), "got %v", err)

	badJob := testPlatformConfig()
	badJob.WaitingJobs = append(badJob.WaitingJobs, jobRecord(1))
	bp, err = NewBenchPlatform(badJob)
	assert.Assert(t, bp == nil)
	assert.Assert(t, errors.Is(err, common.InvalidJob), "got %v", err)
}

func TestGetWaitingJobsSnapshot(t *testing.T) {
	bp := newTestPlatform(t)
	jobs, order, count := bp.GetWaitingJobs("default", "")
	assert.Equal(t, count, 3)
	assert.Equal(t, len(jobs), 3)
	assert.DeepEqual(t, order, []int64{1, 2, 3})
	for _, id := range order {
		assert.Assert(t, jobs[id] != nil, "job %d missing from the keyed map", id)
		assert.Equal(t, jobs[id].GetJobID(), id)
	}

	// the caller must not be able to corrupt the snapshot
	delete(jobs, 1)
	order[0] = 99
	jobs, order, count = bp.GetWaitingJobs("default", "")
	assert.Equal(t, count, 3)
	assert.Equal(t, len(jobs), 3)
	assert.DeepEqual(t, order, []int64{1, 2, 3})
}

func TestGetWaitingJobsIgnoresArguments(t *testing.T) {
	bp := newTestPlatform(t)
	_, defaultOrder, defaultCount := bp.GetWaitingJobs("default", "")
	_, otherOrder, otherCount := bp.GetWaitingJobs("besteffort", "reservation")
	assert.Equal(t, otherCount, defaultCount)
	assert.DeepEqual(t, otherOrder, defaultOrder)
}

func TestGetScheduledJobsEmpty(t *testing.T) {
	bp := newTestPlatform(t)
	scheduled := bp.GetScheduledJobs()
	assert.Assert(t, scheduled != nil, "empty baseline must not be nil")
	assert.Equal(t, len(scheduled), 0)
}

func TestGetDataJobsNoOp(t *testing.T) {
	bp := newTestPlatform(t)
	jobs, order, _ := bp.GetWaitingJobs("default", "")
	bp.GetDataJobs(jobs, order, bp.GetResourceSet(), 60)
	_, _, count := bp.GetWaitingJobs("default", "")
	assert.Equal(t, count, 3)
}

func TestSaveAssignmentsLastWriteWins(t *testing.T) {
	bp := newTestPlatform(t)

	first := map[int64]objects.Assignment{
		1: {JobID: 1, MoldableID: 11, Resources: rng(0, 7), StartTime: 0, Walltime: 7200},
		2: {JobID: 2, MoldableID: 21, Resources: rng(8, 15), StartTime: 0, Walltime: 7200},
	}
	bp.SaveAssignments(first, bp.GetResourceSet())
	assert.Equal(t, bp.CurrentPassState(), objects.Saved.String())
	assert.Equal(t, len(bp.GetAssignments()), 2)

	second := map[int64]objects.Assignment{
		3: {JobID: 3, MoldableID: 31, Resources: rng(16, 23), StartTime: 100, Walltime: 7200},
	}
	bp.SaveAssignments(second, bp.GetResourceSet())

	stored := bp.GetAssignments()
	assert.Equal(t, len(stored), 1)
	assert.Equal(t, stored[3].StartTime, int64(100))
	_, ok := stored[1]
	assert.Assert(t, !ok, "earlier store must be fully replaced")
}

func TestSaveAssignmentsCopiesInput(t *testing.T) {
	bp := newTestPlatform(t)
	assignments := map[int64]objects.Assignment{
		1: {JobID: 1, MoldableID: 11, Resources: rng(0, 7), StartTime: 0, Walltime: 7200},
	}
	bp.SaveAssignments(assignments, bp.GetResourceSet())

	// mutating the input after the call must not leak into the store
	delete(assignments, 1)
	assert.Equal(t, len(bp.GetAssignments()), 1)
}
