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
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/oar-team/oar-scheduler-redox/pkg/common"
)

func newTestJob(jobID int64) *Job {
	moldables := []*Moldable{
		NewMoldable(40, 7200, []HierarchyRequest{{Filter: rng(0, 31), Levels: levels(LevelRequest{"nodes", 2})}}),
		NewMoldable(41, 3600, []HierarchyRequest{{Filter: rng(0, 31), Levels: levels(LevelRequest{"nodes", 4})}}),
	}
	return NewJob(jobID, "default", "batch", "proj", "alice", moldables)
}

func TestNewJob(t *testing.T) {
	job := newTestJob(7)
	assert.Equal(t, int64(7), job.GetJobID())
	assert.Equal(t, "default", job.GetQueue())
	assert.Equal(t, "batch", job.GetName())
	assert.Equal(t, "proj", job.GetProject())
	assert.Equal(t, "alice", job.GetUser())
	assert.Equal(t, Waiting, job.GetState())
	assert.Assert(t, !job.IsAssigned())
	assert.Assert(t, job.GetGrantedResources().IsEmpty())
	assert.Equal(t, 2, job.MoldableCount())
}

func TestMarkAssigned(t *testing.T) {
	job := newTestJob(7)
	job.MarkAssigned(rng(8, 15))
	assert.Assert(t, job.IsAssigned())
	assert.Equal(t, Scheduled, job.GetState())
	granted := job.GetGrantedResources()
	assert.Assert(t, granted.Equals(rng(8, 15)), "got %s", granted.String())
}

func TestMoldableOrder(t *testing.T) {
	job := newTestJob(7)
	moldables := job.GetMoldables()
	assert.Equal(t, int64(40), moldables[0].GetID())
	assert.Equal(t, int64(41), moldables[1].GetID())
	assert.Equal(t, int64(7200), moldables[0].GetWalltime())
	assert.Equal(t, int64(3600), moldables[1].GetWalltime())
	assert.Equal(t, 1, len(moldables[0].GetRequests()))
}

func TestMoldableIndex(t *testing.T) {
	job := newTestJob(7)

	index, ok := job.MoldableIndex(40)
	assert.Assert(t, ok)
	assert.Equal(t, 0, index)

	index, ok = job.MoldableIndex(41)
	assert.Assert(t, ok)
	assert.Equal(t, 1, index)

	_, ok = job.MoldableIndex(99)
	assert.Assert(t, !ok)
}

func TestJobString(t *testing.T) {
	var job *Job
	assert.Equal(t, "job is nil", job.String())
	assert.Assert(t, len(newTestJob(7).String()) > 0)
}

func TestAssignmentEnd(t *testing.T) {
	a := Assignment{JobID: 1, MoldableID: 0, Resources: rng(2, 4), StartTime: 5, Walltime: 10}
	assert.Assert(t, a.IsComplete())
	assert.Equal(t, int64(14), a.End())
}

func TestAssignmentCompleteness(t *testing.T) {
	tests := []struct {
		name     string
		instance Assignment
		complete bool
	}{
		{"filled in", Assignment{StartTime: 0, Walltime: 60}, true},
		{"no start time", Assignment{StartTime: UnsetTime, Walltime: 60}, false},
		{"no walltime", Assignment{StartTime: 5, Walltime: 0}, false},
		{"negative walltime", Assignment{StartTime: 5, Walltime: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.complete, tt.instance.IsComplete())
			err := tt.instance.Check()
			if tt.complete {
				assert.NilError(t, err)
			} else {
				assert.Assert(t, errors.Is(err, common.IncompleteAssignment), "got %v", err)
			}
		})
	}
}
