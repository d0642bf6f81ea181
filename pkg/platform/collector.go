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
	"go.uber.org/zap"

	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
	"github.com/oar-team/oar-scheduler-redox/pkg/log"
	"github.com/oar-team/oar-scheduler-redox/pkg/metrics"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform/objects"
)

// ReportRow is one line of the benchmark report. The quotas hit count is
// always zero, quota accounting happens outside this platform.
type ReportRow struct {
	JobID          int64              `json:"id"`
	QuotasHitCount uint32             `json:"quotas_hit_count"`
	Begin          int64              `json:"begin"`
	End            int64              `json:"end"`
	ProcSet        []procset.Interval `json:"proc_set"`
	MoldableIndex  int                `json:"moldable_index"`
}

// CollectReport reads the assignment store and derives the report rows in
// job arrival order. Assignments missing timing fields or naming an unknown
// job or moldable are logged and skipped: a partially successful pass still
// reports every row it did produce.
func (bp *BenchPlatform) CollectReport() []ReportRow {
	if err := bp.handlePassEvent(objects.CollectPass); err != nil {
		log.Log(log.Collector).Warn("unexpected pass state at collection",
			zap.String("runID", bp.runID),
			zap.Error(err))
	}

	rows := make([]ReportRow, 0, len(bp.store))
	for _, jobID := range bp.order {
		assignment, ok := bp.store[jobID]
		if !ok {
			continue
		}
		if err := assignment.Check(); err != nil {
			log.Log(log.Collector).Warn("assignment skipped",
				zap.Int64("jobID", jobID),
				zap.Error(err))
			metrics.GetBenchMetrics().IncSkippedRow()
			continue
		}
		index, ok := bp.jobs[jobID].MoldableIndex(assignment.MoldableID)
		if !ok {
			log.Log(log.Collector).Warn("assignment names an unknown moldable, skipping",
				zap.Int64("jobID", jobID),
				zap.Int64("moldableID", assignment.MoldableID))
			metrics.GetBenchMetrics().IncSkippedRow()
			continue
		}
		rows = append(rows, ReportRow{
			JobID:          jobID,
			QuotasHitCount: 0,
			Begin:          assignment.StartTime,
			End:            assignment.End(),
			ProcSet:        assignment.Resources.Intervals(),
			MoldableIndex:  index,
		})
		metrics.GetBenchMetrics().IncCollectedRow()
	}

	for jobID := range bp.store {
		if _, known := bp.jobs[jobID]; !known {
			log.Log(log.Collector).Warn("assignment for unknown job, skipping",
				zap.Int64("jobID", jobID))
			metrics.GetBenchMetrics().IncSkippedRow()
		}
	}

	metrics.GetBenchMetrics().IncPassesCompleted()
	metrics.GetBenchMetrics().ObservePassLatency(bp.startedAt)
	log.Log(log.Collector).Info("benchmark report collected",
		zap.String("runID", bp.runID),
		zap.Int("rows", len(rows)),
		zap.Int("assignments", len(bp.store)))
	return rows
}
