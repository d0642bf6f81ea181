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

	"go.uber.org/zap"

	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
	"github.com/oar-team/oar-scheduler-redox/pkg/log"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform/objects"
	"github.com/oar-team/oar-scheduler-redox/pkg/trace"
)

// FirstFitEngine is a deliberately small placement engine used to exercise
// the platform surface end to end: it walks the waiting jobs in arrival
// order, grants the first moldable whose request resolves against the
// remaining free ids at the pinned clock, and writes every decision back in
// a single save. It stands in for the external engine in demos and tests.
type FirstFitEngine struct {
	platform platform.Platform
	traceCtx trace.TraceContext
}

// NewFirstFitEngine returns an engine bound to the given platform. The trace
// context may be nil.
func NewFirstFitEngine(p platform.Platform, traceCtx trace.TraceContext) *FirstFitEngine {
	return &FirstFitEngine{platform: p, traceCtx: traceCtx}
}

// Schedule places the waiting jobs and saves the result, returning how many
// jobs were assigned and how many found no placement.
func (e *FirstFitEngine) Schedule() (int, int) {
	resourceSet := e.platform.GetResourceSet()
	jobs, order, count := e.platform.GetWaitingJobs("default", "")
	now := e.platform.GetCurrentTime()
	horizon := e.platform.GetMaxTime()

	trace.StartSpanWrapper(e.traceCtx, trace.PassLevel, trace.SchedulePhase, "")
	free := resourceSet.GetDefaultIntervals()
	assignments := make(map[int64]objects.Assignment, count)
	for _, jobID := range order {
		trace.StartSpanWrapper(e.traceCtx, trace.JobLevel, trace.SchedulePhase,
			fmt.Sprintf("job-%d", jobID))
		granted, moldable := e.resolve(resourceSet, jobs[jobID], free, now, horizon)
		if moldable == nil {
			trace.FinishActiveSpanWrapper(e.traceCtx, trace.SkipState, "")
			log.Log(log.Examples).Info("no placement found",
				zap.Int64("jobID", jobID))
			continue
		}
		assignments[jobID] = objects.Assignment{
			JobID:      jobID,
			MoldableID: moldable.GetID(),
			Resources:  granted,
			StartTime:  now,
			Walltime:   moldable.GetWalltime(),
		}
		jobs[jobID].MarkAssigned(granted)
		free = free.Subtract(granted)
		if log.IsDebugEnabled() {
			log.Log(log.Examples).Debug("job placed",
				zap.Int64("jobID", jobID),
				zap.Int64("moldableID", moldable.GetID()),
				zap.String("granted", granted.String()))
		}
		trace.FinishActiveSpanWrapper(e.traceCtx, trace.AssignedState, "")
	}
	trace.FinishActiveSpanWrapper(e.traceCtx, "", "")

	trace.StartSpanWrapper(e.traceCtx, trace.PassLevel, trace.SaveAssignmentsPhase, "")
	e.platform.SaveAssignments(assignments, resourceSet)
	trace.FinishActiveSpanWrapper(e.traceCtx, "", "")

	return len(assignments), count - len(assignments)
}

// resolve tries the moldables of one job in submission order against the
// free ids and returns the first grant, nil when none resolves.
func (e *FirstFitEngine) resolve(resourceSet *objects.ResourceSet, job *objects.Job,
	free procset.ProcSet, now, horizon int64) (procset.ProcSet, *objects.Moldable) {
	hierarchy := resourceSet.GetHierarchy()
	for _, moldable := range job.GetMoldables() {
		span, _ := trace.StartSpanWrapper(e.traceCtx, trace.MoldableLevel, trace.ResolveRequestPhase,
			fmt.Sprintf("moldable-%d", moldable.GetID()))
		end := now + moldable.GetWalltime() - 1
		if end > horizon {
			trace.FinishActiveSpanWrapper(e.traceCtx, trace.SkipState, trace.HorizonExceededInfo)
			continue
		}
		granted, ok := hierarchy.Request(e.eligibleAt(resourceSet, free, end), moldable.GetRequests())
		if !ok {
			trace.FinishActiveSpanWrapper(e.traceCtx, trace.SkipState, trace.NoResourcesInfo)
			continue
		}
		trace.SetTags(span, newScheduleTags().
			withState(trace.AssignedState).
			withGranted(granted))
		trace.FinishActiveSpanWrapper(e.traceCtx, "", "")
		return granted, moldable
	}
	return procset.NewProcSet(), nil
}

// eligibleAt narrows the free set to ids whose availability window covers
// the occupation end. An empty timeline leaves everything available until
// the horizon.
func (e *FirstFitEngine) eligibleAt(resourceSet *objects.ResourceSet, free procset.ProcSet, end int64) procset.ProcSet {
	timeline := resourceSet.GetAvailability()
	if timeline.Len() == 0 {
		return free
	}
	covered := procset.NewProcSet()
	timeline.Ascend(func(time int64, ids procset.ProcSet) bool {
		if time >= end {
			covered = covered.Union(ids)
		}
		return true
	})
	return free.Intersect(covered)
}

var _ trace.TagsBuilder = &scheduleTags{}

// scheduleTags collects the result tags of one granted request.
type scheduleTags struct {
	state   string
	granted procset.ProcSet
}

func newScheduleTags() *scheduleTags {
	return &scheduleTags{granted: procset.NewProcSet()}
}

func (st *scheduleTags) withState(state string) *scheduleTags {
	st.state = state
	return st
}

func (st *scheduleTags) withGranted(granted procset.ProcSet) *scheduleTags {
	st.granted = granted
	return st
}

func (st *scheduleTags) Build() map[string]interface{} {
	tags := make(map[string]interface{})
	if st.state != "" {
		tags[trace.StateKey] = st.state
	}
	if !st.granted.IsEmpty() {
		tags["granted"] = st.granted.String()
		tags["grantedCount"] = st.granted.Count()
	}
	return tags
}

// RunBenchmark drives one complete pass on an already built platform: first
// fit placement, one save, then report collection. Spans nest under whatever
// span is active on the context, the caller owns the root.
func RunBenchmark(bench *platform.BenchPlatform, traceCtx trace.TraceContext) []platform.ReportRow {
	engine := NewFirstFitEngine(bench, traceCtx)
	assigned, skipped := engine.Schedule()
	log.Log(log.Examples).Info("pass scheduled",
		zap.String("runID", bench.GetRunID()),
		zap.Int("assigned", assigned),
		zap.Int("skipped", skipped))

	trace.StartSpanWrapper(traceCtx, trace.PassLevel, trace.CollectReportPhase, "")
	rows := bench.CollectReport()
	trace.FinishActiveSpanWrapper(traceCtx, "", "")
	return rows
}
