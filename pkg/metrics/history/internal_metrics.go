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

package history

import (
	"time"

	"github.com/oar-team/oar-scheduler-redox/pkg/locking"
)

// InternalMetricsHistory keeps a coarse trend of the benchmark counters for
// the web UI's front page. For detailed metrics use Prometheus.
type InternalMetricsHistory struct {
	records []*MetricsRecord
	limit   int

	locking.Mutex
}

// MetricsRecord is one sample of the benchmark counters.
type MetricsRecord struct {
	Timestamp         time.Time
	TotalPasses       int
	TotalAssignedJobs int
}

func NewInternalMetricsHistory(limit int) *InternalMetricsHistory {
	return &InternalMetricsHistory{
		records: make([]*MetricsRecord, 0),
		limit:   limit,
	}
}

// Store appends a sample, evicting the oldest one beyond the limit.
func (h *InternalMetricsHistory) Store(totalPasses, totalAssignedJobs int) {
	h.Lock()
	defer h.Unlock()

	h.records = append(h.records,
		&MetricsRecord{
			time.Now(),
			totalPasses,
			totalAssignedJobs,
		})
	if len(h.records) > h.limit {
		h.records = h.records[1:]
	}
}

func (h *InternalMetricsHistory) GetRecords() []*MetricsRecord {
	h.Lock()
	defer h.Unlock()
	records := make([]*MetricsRecord, len(h.records))
	copy(records, h.records)
	return records
}

func (h *InternalMetricsHistory) GetLimit() int {
	h.Lock()
	defer h.Unlock()
	return h.limit
}
