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
	"context"
	"time"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/oar-team/oar-scheduler-redox/pkg/common"
	"github.com/oar-team/oar-scheduler-redox/pkg/common/configs"
	"github.com/oar-team/oar-scheduler-redox/pkg/log"
	"github.com/oar-team/oar-scheduler-redox/pkg/metrics"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform/objects"
	"github.com/oar-team/oar-scheduler-redox/pkg/trace"
)

// Platform is the surface a scheduling engine drives one pass against. The
// engine queries the model through the getters, writes its decisions back
// through SaveAssignments and never touches the snapshot any other way.
type Platform interface {
	// GetResourceSet returns the canonical resource model. The same snapshot
	// is returned for the lifetime of the pass.
	GetResourceSet() *objects.ResourceSet
	// GetCurrentTime returns the simulation clock, pinned at construction so
	// repeated runs over the same input are reproducible.
	GetCurrentTime() int64
	// GetMaxTime returns the simulation horizon.
	GetMaxTime() int64
	// GetWaitingJobs returns the pending jobs as a (keyed map, arrival order,
	// count) triple. The queue and reservation mode are accepted for contract
	// compatibility and do not narrow the snapshot.
	GetWaitingJobs(queue string, reservation string) (map[int64]*objects.Job, []int64, int)
	// GetScheduledJobs returns the jobs already running. Always empty here:
	// the platform schedules from an idle cluster, the engine must treat the
	// empty result as that baseline and not as missing data.
	GetScheduledJobs() []*objects.Job
	// GetDataJobs is a no-op, all job data is already resolved when the
	// waiting jobs snapshot is built.
	GetDataJobs(jobs map[int64]*objects.Job, order []int64, resourceSet *objects.ResourceSet, securityTime int64)
	// SaveAssignments records the final placement decisions of the pass.
	// Expected once per pass, a repeated call overwrites the store.
	SaveAssignments(assignments map[int64]objects.Assignment, resourceSet *objects.ResourceSet)
}

// BenchPlatform implements Platform over a static snapshot. The resource set
// and the job snapshot are built once at construction, the assignment store
// is the only mutable state.
type BenchPlatform struct {
	runID        string
	resourceSet  *objects.ResourceSet
	jobs         map[int64]*objects.Job
	order        []int64
	count        int
	now          int64
	horizon      int64
	startedAt    time.Time
	stateMachine *fsm.FSM
	store        map[int64]objects.Assignment
}

// NewBenchPlatform builds the platform for one scheduling pass. InvalidTopology
// and InvalidJob abort construction: a malformed snapshot cannot produce a
// meaningful benchmark.
func NewBenchPlatform(conf *configs.PlatformConfig) (*BenchPlatform, error) {
	return NewBenchPlatformWithTrace(conf, nil)
}

// NewBenchPlatformWithTrace builds the facade with the construction phases
// reported on the given trace context. A nil context turns the spans into
// noops.
func NewBenchPlatformWithTrace(conf *configs.PlatformConfig, traceCtx trace.TraceContext) (*BenchPlatform, error) {
	trace.StartSpanWrapper(traceCtx, trace.PassLevel, trace.BuildTopologyPhase, "")
	resourceSet, err := BuildResourceSet(conf.ResourceSet)
	if err != nil {
		trace.FinishActiveSpanWrapper(traceCtx, "", err.Error())
		return nil, err
	}
	trace.FinishActiveSpanWrapper(traceCtx, "", "")

	trace.StartSpanWrapper(traceCtx, trace.PassLevel, trace.TranslateJobsPhase, "")
	jobs, order, count, err := TranslateJobs(conf.WaitingJobs, resourceSet.GetDefaultIntervals())
	if err != nil {
		metrics.GetBenchMetrics().IncTranslationRejected()
		trace.FinishActiveSpanWrapper(traceCtx, "", err.Error())
		return nil, err
	}
	trace.FinishActiveSpanWrapper(traceCtx, "", "")

	bp := &BenchPlatform{
		runID:        common.GetNewUUID(),
		resourceSet:  resourceSet,
		jobs:         jobs,
		order:        order,
		count:        count,
		now:          conf.Simulation.Now,
		horizon:      conf.Simulation.Horizon,
		startedAt:    time.Now(),
		stateMachine: objects.NewPassState(),
		store:        make(map[int64]objects.Assignment),
	}
	if err = bp.handlePassEvent(objects.InitPass); err != nil {
		return nil, err
	}

	metrics.GetBenchMetrics().AddTranslatedJobs(count)
	metrics.GetBenchMetrics().SetResourcesTotal(resourceSet.Count())
	log.Log(log.Platform).Info("platform ready",
		zap.String("runID", bp.runID),
		zap.Int("waitingJobs", count),
		zap.Int64("now", bp.now),
		zap.Int64("horizon", bp.horizon))
	return bp, nil
}

// Handle the state event for the pass.
// The state machine handles the locking.
func (bp *BenchPlatform) handlePassEvent(event objects.PassEvent) error {
	err := bp.stateMachine.Event(context.Background(), event.String(), bp.runID)
	if err == nil {
		return nil
	}
	// handle the same state transition not nil error (limit of fsm).
	if err.Error() == "no transition" {
		return nil
	}
	return err
}

// GetRunID returns the unique id of this pass.
func (bp *BenchPlatform) GetRunID() string {
	return bp.runID
}

// CurrentPassState returns the state of the pass lifecycle.
func (bp *BenchPlatform) CurrentPassState() string {
	return bp.stateMachine.Current()
}

func (bp *BenchPlatform) GetResourceSet() *objects.ResourceSet {
	return bp.resourceSet
}

func (bp *BenchPlatform) GetCurrentTime() int64 {
	return bp.now
}

func (bp *BenchPlatform) GetMaxTime() int64 {
	return bp.horizon
}

// GetWaitingJobs returns the snapshot captured at construction. The returned
// map and slice are fresh copies so a caller cannot corrupt the snapshot
// between re-reads.
func (bp *BenchPlatform) GetWaitingJobs(queue string, reservation string) (map[int64]*objects.Job, []int64, int) {
	jobs := make(map[int64]*objects.Job, len(bp.jobs))
	for id, job := range bp.jobs {
		jobs[id] = job
	}
	order := make([]int64, len(bp.order))
	copy(order, bp.order)
	return jobs, order, bp.count
}

func (bp *BenchPlatform) GetScheduledJobs() []*objects.Job {
	return make([]*objects.Job, 0)
}

func (bp *BenchPlatform) GetDataJobs(jobs map[int64]*objects.Job, order []int64, resourceSet *objects.ResourceSet, securityTime int64) {
	// nothing to resolve, GetWaitingJobs returns fully built jobs
}

// SaveAssignments replaces the assignment store with the decisions of the
// engine. Last write wins: the engine is expected to call this once at the
// end of its pass.
func (bp *BenchPlatform) SaveAssignments(assignments map[int64]objects.Assignment, resourceSet *objects.ResourceSet) {
	if len(bp.store) > 0 {
		log.Log(log.Platform).Warn("assignment store overwritten",
			zap.String("runID", bp.runID),
			zap.Int("previous", len(bp.store)),
			zap.Int("incoming", len(assignments)))
	}
	store := make(map[int64]objects.Assignment, len(assignments))
	for jobID, assignment := range assignments {
		store[jobID] = assignment
	}
	bp.store = store
	if err := bp.handlePassEvent(objects.RecordPass); err != nil {
		log.Log(log.Platform).Warn("unexpected pass state on save",
			zap.String("runID", bp.runID),
			zap.Error(err))
	}
	metrics.GetBenchMetrics().SetAssignmentsSaved(len(store))
	log.Log(log.Platform).Info("assignments saved",
		zap.String("runID", bp.runID),
		zap.Int("count", len(store)))
}

// GetAssignments returns a copy of the assignment store.
func (bp *BenchPlatform) GetAssignments() map[int64]objects.Assignment {
	assignments := make(map[int64]objects.Assignment, len(bp.store))
	for jobID, assignment := range bp.store {
		assignments[jobID] = assignment
	}
	return assignments
}
