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
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"gotest.tools/v3/assert"

	"github.com/oar-team/oar-scheduler-redox/pkg/common/configs"
	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform"
	"github.com/oar-team/oar-scheduler-redox/pkg/trace"
)

func rng(low, high uint32) procset.ProcSet {
	return procset.NewProcSet(procset.Interval{Low: low, High: high})
}

func TestFirstFitSchedule(t *testing.T) {
	bench, err := platform.NewBenchPlatform(GenerateConfig(2, 2, 4, 3))
	assert.NilError(t, err)

	engine := NewFirstFitEngine(bench, nil)
	assigned, skipped := engine.Schedule()
	assert.Equal(t, assigned, 3)
	assert.Equal(t, skipped, 0)

	store := bench.GetAssignments()
	assert.Assert(t, store[1].Resources.Equals(rng(0, 3)), "got %s", store[1].Resources.String())
	assert.Assert(t, store[2].Resources.Equals(rng(4, 7)), "got %s", store[2].Resources.String())
	assert.Assert(t, store[3].Resources.Equals(rng(8, 15)), "got %s", store[3].Resources.String())
	assert.Equal(t, store[1].StartTime, int64(0))
	assert.Equal(t, store[1].Walltime, int64(900))
	assert.Equal(t, bench.CurrentPassState(), "Saved")

	jobs, _, _ := bench.GetWaitingJobs("default", "")
	assert.Assert(t, jobs[1].IsAssigned())
	assert.Assert(t, jobs[1].GetGrantedResources().Equals(rng(0, 3)), "got %s", jobs[1].GetGrantedResources().String())
}

func TestFirstFitExhaustion(t *testing.T) {
	// 4 cores total: the first job claims the only node, the second finds nothing
	bench, err := platform.NewBenchPlatform(GenerateConfig(1, 1, 4, 2))
	assert.NilError(t, err)

	assigned, skipped := NewFirstFitEngine(bench, nil).Schedule()
	assert.Equal(t, assigned, 1)
	assert.Equal(t, skipped, 1)

	store := bench.GetAssignments()
	_, ok := store[2]
	assert.Assert(t, !ok, "job 2 must not be assigned")

	jobs, _, _ := bench.GetWaitingJobs("default", "")
	assert.Assert(t, !jobs[2].IsAssigned(), "job 2 must stay waiting")
	assert.Equal(t, jobs[2].GetState().String(), "Waiting")
}

func TestFirstFitHorizonSkip(t *testing.T) {
	conf := GenerateConfig(1, 2, 4, 1)
	conf.WaitingJobs[0].Moldables[0].Walltime = conf.Simulation.Horizon + 10

	bench, err := platform.NewBenchPlatform(conf)
	assert.NilError(t, err)
	assigned, skipped := NewFirstFitEngine(bench, nil).Schedule()
	assert.Equal(t, assigned, 0)
	assert.Equal(t, skipped, 1)
}

func TestFirstFitMoldableFallback(t *testing.T) {
	conf := GenerateConfig(1, 2, 4, 0)
	conf.WaitingJobs = []configs.JobConfig{
		{
			ID:    1,
			Queue: "default",
			User:  "bench",
			Moldables: []configs.MoldableConfig{
				// asks for more nodes than the topology has
				{ID: 11, Walltime: 3600, Requests: []configs.RequestConfig{
					{Levels: []configs.LevelConfig{{Partition: "nodes", Count: 4}}},
				}},
				{ID: 12, Walltime: 7200, Requests: []configs.RequestConfig{
					{Levels: []configs.LevelConfig{{Partition: "nodes", Count: 1}}},
				}},
			},
		},
	}

	bench, err := platform.NewBenchPlatform(conf)
	assert.NilError(t, err)
	assigned, _ := NewFirstFitEngine(bench, nil).Schedule()
	assert.Equal(t, assigned, 1)

	store := bench.GetAssignments()
	assert.Equal(t, store[1].MoldableID, int64(12))
	assert.Equal(t, store[1].Walltime, int64(7200))

	rows := bench.CollectReport()
	assert.Equal(t, rows[0].MoldableIndex, 1)
}

func TestFirstFitAvailabilityWindows(t *testing.T) {
	conf := GenerateConfig(1, 2, 4, 0)
	conf.ResourceSet.AvailableUpto = []configs.AvailabilityConfig{
		{Time: 1000, IDs: []configs.IntervalConfig{{0, 3}}},
		{Time: configs.DefaultSimulationHorizon, IDs: []configs.IntervalConfig{{4, 7}}},
	}
	conf.WaitingJobs = []configs.JobConfig{
		{ID: 1, Queue: "default", User: "bench", Moldables: []configs.MoldableConfig{
			{ID: 11, Walltime: 3600, Requests: []configs.RequestConfig{
				{Levels: []configs.LevelConfig{{Partition: "nodes", Count: 1}}},
			}},
		}},
		{ID: 2, Queue: "default", User: "bench", Moldables: []configs.MoldableConfig{
			{ID: 21, Walltime: 600, Requests: []configs.RequestConfig{
				{Levels: []configs.LevelConfig{{Partition: "nodes", Count: 1}}},
			}},
		}},
	}

	bench, err := platform.NewBenchPlatform(conf)
	assert.NilError(t, err)
	assigned, skipped := NewFirstFitEngine(bench, nil).Schedule()
	assert.Equal(t, assigned, 2)
	assert.Equal(t, skipped, 0)

	store := bench.GetAssignments()
	// job 1 outlives the first window, only the long lived node qualifies
	assert.Assert(t, store[1].Resources.Equals(rng(4, 7)), "got %s", store[1].Resources.String())
	// job 2 ends inside the first window and takes the first node
	assert.Assert(t, store[2].Resources.Equals(rng(0, 3)), "got %s", store[2].Resources.String())
}

func TestRunBenchmark(t *testing.T) {
	tracer := mocktracer.New()
	traceCtx := &trace.TraceContextImpl{Tracer: tracer, SpanStack: []opentracing.Span{}}

	bench, err := platform.NewBenchPlatform(GenerateConfig(2, 2, 4, 3))
	assert.NilError(t, err)

	rows := RunBenchmark(bench, traceCtx)
	assert.Equal(t, len(rows), 3)
	assert.Equal(t, rows[0].JobID, int64(1))
	assert.Equal(t, rows[0].Begin, int64(0))
	assert.Equal(t, rows[0].End, int64(899))
	assert.Equal(t, rows[0].MoldableIndex, 0)
	assert.Equal(t, rows[2].End, int64(3599))
	assert.Equal(t, bench.CurrentPassState(), "Collected")

	finished := tracer.FinishedSpans()
	assert.Equal(t, len(finished), 9)
	assert.Equal(t, finished[0].OperationName, "[moldable]resolveRequest")
	assert.Equal(t, finished[0].Tags()[trace.StateKey], trace.AssignedState)
	assert.Equal(t, finished[0].Tags()["granted"], "0-3")
	assert.Equal(t, finished[0].Tags()["grantedCount"], int64(4))
	assert.Equal(t, finished[1].OperationName, "[job]schedule")
	assert.Equal(t, finished[6].OperationName, "[pass]schedule")
	assert.Equal(t, finished[7].OperationName, "[pass]saveAssignments")
	assert.Equal(t, finished[8].OperationName, "[pass]collectReport")

	// moldable spans nest under their job span
	jobSpanContext, ok := finished[1].Context().(mocktracer.MockSpanContext)
	assert.Assert(t, ok)
	assert.Equal(t, finished[0].ParentID, jobSpanContext.SpanID)
}
