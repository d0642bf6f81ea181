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

package webservice

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/oar-team/oar-scheduler-redox/pkg/common/configs"
	"github.com/oar-team/oar-scheduler-redox/pkg/metrics/history"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform"
	"github.com/oar-team/oar-scheduler-redox/pkg/webservice/dao"
)

const configData = `
resource_set:
  default_intervals:
    - [0, 31]
  hierarchy:
    partitions:
      switches:
        - [[0, 15]]
        - [[16, 31]]
      nodes:
        - [[0, 7]]
        - [[8, 15]]
        - [[16, 23]]
        - [[24, 31]]
    unit_partition: cores
  available_upto:
    - time: 1000000
      ids: [[0, 31]]
waiting_jobs:
  - id: 1
    queue: default
    user: alice
    moldables:
      - id: 11
        walltime: 3600
        requests:
          - levels:
              - partition: switches
                count: 1
              - partition: nodes
                count: 2
  - id: 2
    queue: default
    user: bob
    moldables:
      - id: 21
        walltime: 60
        requests:
          - levels:
              - partition: cores
                count: 4
`

func setupWebApp(t *testing.T) (*platform.BenchPlatform, *platform.RunHistory) {
	conf, err := configs.LoadPlatformConfig([]byte(configData))
	assert.NilError(t, err, "snapshot rejected")
	bp, err := platform.NewBenchPlatform(conf)
	assert.NilError(t, err, "platform construction failed")
	history := platform.NewRunHistory(5)
	NewWebApp("localhost:9080", bp, history, nil)
	return bp, history
}

func TestGetJobsInfo(t *testing.T) {
	setupWebApp(t)
	req := httptest.NewRequest("GET", "/ws/v1/jobs", nil)
	rr := httptest.NewRecorder()
	getJobsInfo(rr, req)
	assert.Equal(t, rr.Code, http.StatusOK)

	var jobs []map[string]interface{}
	assert.NilError(t, json.Unmarshal(rr.Body.Bytes(), &jobs))
	assert.Equal(t, len(jobs), 2)
	assert.Equal(t, jobs[0]["id"], float64(1), "jobs must be listed in arrival order")
	assert.Equal(t, jobs[0]["user"], "alice")
	assert.Equal(t, jobs[0]["state"], "Waiting")
	assert.Equal(t, jobs[1]["id"], float64(2))

	moldables, ok := jobs[0]["moldables"].([]interface{})
	assert.Assert(t, ok, "moldables missing from the job view")
	assert.Equal(t, len(moldables), 1)
}

func TestGetResourceSetInfo(t *testing.T) {
	setupWebApp(t)
	req := httptest.NewRequest("GET", "/ws/v1/resources", nil)
	rr := httptest.NewRecorder()
	getResourceSetInfo(rr, req)
	assert.Equal(t, rr.Code, http.StatusOK)

	var info struct {
		DefaultIntervals [][2]uint32              `json:"defaultIntervals"`
		ResourceCount    int64                    `json:"resourceCount"`
		Partitions       map[string][][][2]uint32 `json:"partitions"`
		UnitPartition    string                   `json:"unitPartition"`
		Availability     []struct {
			Time int64       `json:"time"`
			IDs  [][2]uint32 `json:"ids"`
		} `json:"availability"`
	}
	assert.NilError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.DeepEqual(t, info.DefaultIntervals, [][2]uint32{{0, 31}})
	assert.Equal(t, info.ResourceCount, int64(32))
	assert.Equal(t, info.UnitPartition, "cores")
	assert.Equal(t, len(info.Partitions["switches"]), 2)
	assert.Equal(t, len(info.Partitions["nodes"]), 4)
	assert.Equal(t, len(info.Partitions["cores"]), 32, "unit partition must expose its singleton groups")
	assert.Equal(t, len(info.Availability), 1)
	assert.Equal(t, info.Availability[0].Time, int64(1000000))
}

func TestGetBenchmarkReport(t *testing.T) {
	bp, history := setupWebApp(t)

	// no pass collected yet
	req := httptest.NewRequest("GET", "/ws/v1/report", nil)
	rr := httptest.NewRecorder()
	getBenchmarkReport(rr, req)
	assert.Equal(t, rr.Code, http.StatusNotFound)

	history.Add(&platform.RunRecord{
		RunID:       bp.GetRunID(),
		CollectedAt: time.Now(),
		JobCount:    2,
		Rows:        []platform.ReportRow{},
	})
	rr = httptest.NewRecorder()
	getBenchmarkReport(rr, req)
	assert.Equal(t, rr.Code, http.StatusOK)

	var report struct {
		RunID    string `json:"runId"`
		JobCount int    `json:"jobCount"`
	}
	assert.NilError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, report.RunID, bp.GetRunID())
	assert.Equal(t, report.JobCount, 2)
}

func TestGetRunHistory(t *testing.T) {
	_, history := setupWebApp(t)
	history.Add(&platform.RunRecord{RunID: "run-1", CollectedAt: time.Now()})
	history.Add(&platform.RunRecord{RunID: "run-2", CollectedAt: time.Now()})

	req := httptest.NewRequest("GET", "/ws/v1/reports", nil)
	rr := httptest.NewRecorder()
	getRunHistory(rr, req)
	assert.Equal(t, rr.Code, http.StatusOK)

	var reports []struct {
		RunID string `json:"runId"`
	}
	assert.NilError(t, json.Unmarshal(rr.Body.Bytes(), &reports))
	assert.Equal(t, len(reports), 2)
	assert.Equal(t, reports[0].RunID, "run-1")
	assert.Equal(t, reports[1].RunID, "run-2")
}

func TestValidateConf(t *testing.T) {
	setupWebApp(t)
	tests := []struct {
		name    string
		content string
		allowed bool
	}{
		{"valid snapshot", configData, true},
		{"unknown field", strings.Replace(configData, "waiting_jobs", "pending_jobs", 1), false},
		{"interval not a pair", strings.Replace(configData, "[0, 31]", "[0, 15, 31]", 1), false},
		{"zero level count", strings.Replace(configData, "count: 4", "count: 0", 1), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/ws/v1/validate-conf", strings.NewReader(tc.content))
			rr := httptest.NewRecorder()
			validateConf(rr, req)
			assert.Equal(t, rr.Code, http.StatusOK)

			var result struct {
				Allowed bool   `json:"allowed"`
				Reason  string `json:"reason"`
			}
			assert.NilError(t, json.Unmarshal(rr.Body.Bytes(), &result))
			assert.Equal(t, result.Allowed, tc.allowed)
			if !tc.allowed {
				assert.Assert(t, result.Reason != "", "rejection must carry a reason")
			}
		})
	}
}

func TestHandlersWithoutPlatform(t *testing.T) {
	NewWebApp("localhost:9080", nil, nil, nil)
	for _, handler := range []http.HandlerFunc{getJobsInfo, getResourceSetInfo} {
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, rr.Code, http.StatusServiceUnavailable)

		var apiError struct {
			StatusCode  int    `json:"status_code"`
			Message     string `json:"message"`
			Description string `json:"description"`
		}
		assert.NilError(t, json.Unmarshal(rr.Body.Bytes(), &apiError))
		assert.Equal(t, apiError.StatusCode, http.StatusServiceUnavailable)
		assert.Assert(t, apiError.Message != "")
	}
}

func TestGetFullStateDump(t *testing.T) {
	bp, history := setupWebApp(t)
	history.Add(&platform.RunRecord{RunID: bp.GetRunID(), CollectedAt: time.Now(), JobCount: 2})

	req := httptest.NewRequest("GET", "/ws/v1/fullstatedump", nil)
	rr := httptest.NewRecorder()
	getFullStateDump(rr, req)
	assert.Equal(t, rr.Code, http.StatusOK)

	var dump struct {
		Timestamp    int64                  `json:"timestamp"`
		RunID        string                 `json:"runId"`
		PassState    string                 `json:"passState"`
		Resources    map[string]interface{} `json:"resources"`
		Jobs         []interface{}          `json:"jobs"`
		LatestReport map[string]interface{} `json:"latestReport"`
	}
	assert.NilError(t, json.Unmarshal(rr.Body.Bytes(), &dump))
	assert.Equal(t, dump.RunID, bp.GetRunID())
	assert.Equal(t, dump.PassState, "Ready")
	assert.Assert(t, dump.Timestamp > 0)
	assert.Equal(t, len(dump.Jobs), 2)
	assert.Assert(t, dump.Resources != nil)
	assert.Assert(t, dump.LatestReport != nil)
}

func TestHistoryEndpointsDisabled(t *testing.T) {
	setupWebApp(t)
	for _, handler := range []http.HandlerFunc{getPassHistory, getAssignedJobHistory} {
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, rr.Code, http.StatusNotImplemented)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	trend := history.NewInternalMetricsHistory(5)
	trend.Store(1, 4)
	trend.Store(2, 7)
	NewWebApp("localhost:9080", nil, nil, trend)

	rr := httptest.NewRecorder()
	getPassHistory(rr, httptest.NewRequest("GET", "/ws/v1/history/passes", nil))
	assert.Equal(t, rr.Code, http.StatusOK)
	var passes []dao.PassHistoryDAOInfo
	assert.NilError(t, json.Unmarshal(rr.Body.Bytes(), &passes))
	assert.Equal(t, len(passes), 2)
	assert.Equal(t, passes[0].TotalPasses, "1")
	assert.Equal(t, passes[1].TotalPasses, "2")
	assert.Assert(t, passes[0].Timestamp > 0)

	rr = httptest.NewRecorder()
	getAssignedJobHistory(rr, httptest.NewRequest("GET", "/ws/v1/history/jobs", nil))
	assert.Equal(t, rr.Code, http.StatusOK)
	var jobs []dao.AssignedJobHistoryDAOInfo
	assert.NilError(t, json.Unmarshal(rr.Body.Bytes(), &jobs))
	assert.Equal(t, len(jobs), 2)
	assert.Equal(t, jobs[0].TotalAssignedJobs, "4")
	assert.Equal(t, jobs[1].TotalAssignedJobs, "7")
}
