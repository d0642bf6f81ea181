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

// ----------------------------------
// job states
// jobs enter the pass Waiting; the engine moves a job to Scheduled when it
// grants resources, translation never produces anything but Waiting
// ----------------------------------
type JobState int

const (
	Waiting JobState = iota
	Scheduled
)

func (js JobState) String() string {
	return [...]string{"Waiting", "Scheduled"}[js]
}

// Moldable is one alternative resource/time shape a job accepts. The engine
// picks at most one moldable per job.
type Moldable struct {
	id       int64
	walltime int64
	requests []HierarchyRequest
}

func NewMoldable(id int64, walltime int64, requests []HierarchyRequest) *Moldable {
	return &Moldable{
		id:       id,
		walltime: walltime,
		requests: requests,
	}
}

func (m *Moldable) GetID() int64 {
	return m.id
}

// GetWalltime returns the requested maximum run duration in seconds.
func (m *Moldable) GetWalltime() int64 {
	return m.walltime
}

func (m *Moldable) GetRequests() []HierarchyRequest {
	copied := make([]HierarchyRequest, len(m.requests))
	copy(copied, m.requests)
	return copied
}

// Job is the canonical pending job entity handed to the engine. Identity and
// moldables are set at translation time and read-only afterwards; only the
// engine touches the placement fields, through MarkAssigned.
type Job struct {
	jobID     int64
	queue     string
	name      string
	project   string
	user      string
	state     JobState
	assigned  bool
	granted   procset.ProcSet
	moldables []*Moldable
}

func NewJob(jobID int64, queue, name, project, user string, moldables []*Moldable) *Job {
	return &Job{
		jobID:     jobID,
		queue:     queue,
		name:      name,
		project:   project,
		user:      user,
		state:     Waiting,
		granted:   procset.NewProcSet(),
		moldables: moldables,
	}
}

func (j *Job) String() string {
	if j == nil {
		return "job is nil"
	}
	return fmt.Sprintf("jobID %d, queue %s, user %s, moldables %d", j.jobID, j.queue, j.user, len(j.moldables))
}

// GetJobID returns the id of this job, unique within one pass.
func (j *Job) GetJobID() int64 {
	return j.jobID
}

func (j *Job) GetQueue() string {
	return j.queue
}

func (j *Job) GetName() string {
	return j.name
}

func (j *Job) GetProject() string {
	return j.project
}

func (j *Job) GetUser() string {
	return j.user
}

func (j *Job) GetState() JobState {
	return j.state
}

// IsAssigned reports whether the engine already granted resources to this
// job in the current pass.
func (j *Job) IsAssigned() bool {
	return j.assigned
}

// GetGrantedResources returns the resource ids granted to this job, empty
// until the job is marked assigned.
func (j *Job) GetGrantedResources() procset.ProcSet {
	return j.granted
}

// MarkAssigned records the granted resource set on the job and moves it to
// Scheduled. Only the engine calls this, once the winning moldable resolved.
func (j *Job) MarkAssigned(granted procset.ProcSet) {
	j.assigned = true
	j.granted = granted
	j.state = Scheduled
}

// GetMoldables returns the admissible shapes in submission order. Order is
// engine visible: earlier entries are preferred alternatives.
func (j *Job) GetMoldables() []*Moldable {
	copied := make([]*Moldable, len(j.moldables))
	copy(copied, j.moldables)
	return copied
}

func (j *Job) MoldableCount() int {
	return len(j.moldables)
}

// MoldableIndex resolves a moldable id to its position in the submission
// order, false when the job has no moldable with that id.
func (j *Job) MoldableIndex(moldableID int64) (int, bool) {
	for i, m := range j.moldables {
		if m.id == moldableID {
			return i, true
		}
	}
	return 0, false
}
