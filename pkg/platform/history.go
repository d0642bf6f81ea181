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
	"time"

	"github.com/oar-team/oar-scheduler-redox/pkg/locking"
)

const defaultHistorySize = 10

// RunRecord summarizes one collected pass.
type RunRecord struct {
	RunID       string
	CollectedAt time.Time
	JobCount    int
	Rows        []ReportRow
}

// RunHistory keeps the reports of recent passes for inspection over the web
// interface. Passes themselves are sequential, the history is read
// concurrently by web handlers and needs protection.
type RunHistory struct {
	records []*RunRecord
	limit   int

	locking.RWMutex
}

// NewRunHistory creates a history retaining the given number of records,
// oldest evicted first. A non-positive limit selects the default size.
func NewRunHistory(limit int) *RunHistory {
	if limit <= 0 {
		limit = defaultHistorySize
	}
	return &RunHistory{
		records: make([]*RunRecord, 0, limit),
		limit:   limit,
	}
}

func (rh *RunHistory) Add(record *RunRecord) {
	rh.Lock()
	defer rh.Unlock()
	rh.records = append(rh.records, record)
	if len(rh.records) > rh.limit {
		rh.records = rh.records[len(rh.records)-rh.limit:]
	}
}

// GetRecords returns the retained records, oldest first.
func (rh *RunHistory) GetRecords() []*RunRecord {
	rh.RLock()
	defer rh.RUnlock()
	records := make([]*RunRecord, len(rh.records))
	copy(records, rh.records)
	return records
}

// Latest returns the most recent record, nil when no pass was collected yet.
func (rh *RunHistory) Latest() *RunRecord {
	rh.RLock()
	defer rh.RUnlock()
	if len(rh.records) == 0 {
		return nil
	}
	return rh.records[len(rh.records)-1]
}

func (rh *RunHistory) Size() int {
	rh.RLock()
	defer rh.RUnlock()
	return len(rh.records)
}
