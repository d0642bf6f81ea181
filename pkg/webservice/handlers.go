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
	"io"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/oar-team/oar-scheduler-redox/pkg/common/configs"
	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
	"github.com/oar-team/oar-scheduler-redox/pkg/log"
	"github.com/oar-team/oar-scheduler-redox/pkg/metrics/history"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform/objects"
	"github.com/oar-team/oar-scheduler-redox/pkg/webservice/dao"
)

// validate-conf can be hammered with malformed snapshots, keep the log quiet
var validateConfLog = log.RateLimitedLog(log.Webservice, time.Minute)

func getPlatform() *platform.BenchPlatform {
	lock.RLock()
	defer lock.RUnlock()
	return livePlatform
}

func getHistory() *platform.RunHistory {
	lock.RLock()
	defer lock.RUnlock()
	return runHistory
}

func getInternalMetrics() *history.InternalMetricsHistory {
	lock.RLock()
	defer lock.RUnlock()
	return imHistory
}

func writeHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Credentials", "true")
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,HEAD,OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "X-Requested-With,Content-Type,Accept,Origin")
}

func buildJSONErrorResponse(w http.ResponseWriter, detail string, code int) {
	w.WriteHeader(code)
	errorInfo := dao.NewAPIError(nil, code, detail)
	if jsonErr := json.NewEncoder(w).Encode(errorInfo); jsonErr != nil {
		log.Log(log.Webservice).Debug("failed to create JSON error response",
			zap.Error(jsonErr))
	}
}

func getStackInfo(w http.ResponseWriter, r *http.Request) {
	writeHeaders(w)
	var stack = func() []byte {
		buf := make([]byte, 1024)
		for {
			n := runtime.Stack(buf, true)
			if n < len(buf) {
				return buf[:n]
			}
			buf = make([]byte, 2*len(buf))
		}
	}
	if _, err := w.Write(stack()); err != nil {
		log.Log(log.Webservice).Error("GetStackInfo error", zap.Error(err))
		buildJSONErrorResponse(w, err.Error(), http.StatusInternalServerError)
	}
}

func getBenchmarkReport(w http.ResponseWriter, r *http.Request) {
	writeHeaders(w)
	history := getHistory()
	if history == nil || history.Latest() == nil {
		buildJSONErrorResponse(w, "no benchmark report collected yet", http.StatusNotFound)
		return
	}
	if err := json.NewEncoder(w).Encode(getRunReportDAO(history.Latest())); err != nil {
		buildJSONErrorResponse(w, err.Error(), http.StatusInternalServerError)
	}
}

func getRunHistory(w http.ResponseWriter, r *http.Request) {
	writeHeaders(w)
	reports := make([]*dao.RunReportDAOInfo, 0)
	if history := getHistory(); history != nil {
		for _, record := range history.GetRecords() {
			reports = append(reports, getRunReportDAO(record))
		}
	}
	if err := json.NewEncoder(w).Encode(reports); err != nil {
		buildJSONErrorResponse(w, err.Error(), http.StatusInternalServerError)
	}
}

func getPassHistory(w http.ResponseWriter, r *http.Request) {
	writeHeaders(w)
	trend := getInternalMetrics()
	if trend == nil {
		buildJSONErrorResponse(w, "internal metrics collection is not enabled", http.StatusNotImplemented)
		return
	}
	var result []*dao.PassHistoryDAOInfo
	for _, record := range trend.GetRecords() {
		if record == nil {
			continue
		}
		result = append(result, &dao.PassHistoryDAOInfo{
			Timestamp:   record.Timestamp.UnixNano(),
			TotalPasses: strconv.Itoa(record.TotalPasses),
		})
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		buildJSONErrorResponse(w, err.Error(), http.StatusInternalServerError)
	}
}

func getAssignedJobHistory(w http.ResponseWriter, r *http.Request) {
	writeHeaders(w)
	trend := getInternalMetrics()
	if trend == nil {
		buildJSONErrorResponse(w, "internal metrics collection is not enabled", http.StatusNotImplemented)
		return
	}
	var result []*dao.AssignedJobHistoryDAOInfo
	for _, record := range trend.GetRecords() {
		if record == nil {
			continue
		}
		result = append(result, &dao.AssignedJobHistoryDAOInfo{
			Timestamp:         record.Timestamp.UnixNano(),
			TotalAssignedJobs: strconv.Itoa(record.TotalAssignedJobs),
		})
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		buildJSONErrorResponse(w, err.Error(), http.StatusInternalServerError)
	}
}

func getResourceSetInfo(w http.ResponseWriter, r *http.Request) {
	writeHeaders(w)
	bp := getPlatform()
	if bp == nil {
		buildJSONErrorResponse(w, "no platform loaded", http.StatusServiceUnavailable)
		return
	}
	if err := json.NewEncoder(w).Encode(getResourceSetDAO(bp.GetResourceSet())); err != nil {
		buildJSONErrorResponse(w, err.Error(), http.StatusInternalServerError)
	}
}

func getJobsInfo(w http.ResponseWriter, r *http.Request) {
	writeHeaders(w)
	bp := getPlatform()
	if bp == nil {
		buildJSONErrorResponse(w, "no platform loaded", http.StatusServiceUnavailable)
		return
	}
	if err := json.NewEncoder(w).Encode(getJobsDAO(bp)); err != nil {
		buildJSONErrorResponse(w, err.Error(), http.StatusInternalServerError)
	}
}

func validateConf(w http.ResponseWriter, r *http.Request) {
	writeHeaders(w)
	requestBytes, err := io.ReadAll(r.Body)
	if err == nil {
		_, err = configs.LoadPlatformConfig(requestBytes)
	}
	var result dao.ValidateConfResponse
	if err != nil {
		validateConfLog.Info("rejected snapshot on validate-conf",
			zap.Error(err))
		result.Allowed = false
		result.Reason = err.Error()
	} else {
		result.Allowed = true
	}
	if err = json.NewEncoder(w).Encode(result); err != nil {
		buildJSONErrorResponse(w, err.Error(), http.StatusInternalServerError)
	}
}

func getRunReportDAO(record *platform.RunRecord) *dao.RunReportDAOInfo {
	return &dao.RunReportDAOInfo{
		RunID:       record.RunID,
		CollectedAt: record.CollectedAt.UnixMilli(),
		JobCount:    record.JobCount,
		Rows:        record.Rows,
	}
}

func getResourceSetDAO(resourceSet *objects.ResourceSet) *dao.ResourceSetDAOInfo {
	hierarchy := resourceSet.GetHierarchy()
	partitions := make(map[string][][]procset.Interval)
	for _, name := range hierarchy.GetPartitionNames() {
		groups := hierarchy.GetPartition(name)
		groupIntervals := make([][]procset.Interval, 0, len(groups))
		for _, group := range groups {
			groupIntervals = append(groupIntervals, group.Intervals())
		}
		partitions[name] = groupIntervals
	}

	availability := make([]dao.AvailabilityDAOInfo, 0, resourceSet.GetAvailability().Len())
	resourceSet.GetAvailability().Ascend(func(time int64, ids procset.ProcSet) bool {
		availability = append(availability, dao.AvailabilityDAOInfo{Time: time, IDs: ids.Intervals()})
		return true
	})

	return &dao.ResourceSetDAOInfo{
		DefaultIntervals: resourceSet.GetDefaultIntervals().Intervals(),
		ResourceCount:    resourceSet.Count(),
		Partitions:       partitions,
		UnitPartition:    hierarchy.GetUnitPartition(),
		Availability:     availability,
	}
}

func getJobsDAO(bp *platform.BenchPlatform) []*dao.JobDAOInfo {
	jobs, order, _ := bp.GetWaitingJobs("", "")
	jobsDao := make([]*dao.JobDAOInfo, 0, len(order))
	for _, id := range order {
		jobsDao = append(jobsDao, getJobDAO(jobs[id]))
	}
	return jobsDao
}

func getJobDAO(job *objects.Job) *dao.JobDAOInfo {
	moldables := make([]dao.MoldableDAOInfo, 0, job.MoldableCount())
	for _, moldable := range job.GetMoldables() {
		requests := make([]dao.RequestDAOInfo, 0, len(moldable.GetRequests()))
		for _, request := range moldable.GetRequests() {
			levels := make([]dao.LevelDAOInfo, 0, len(request.Levels))
			for _, level := range request.Levels {
				levels = append(levels, dao.LevelDAOInfo{Partition: level.Partition, Count: level.Count})
			}
			requests = append(requests, dao.RequestDAOInfo{
				Filter: request.Filter.Intervals(),
				Levels: levels,
			})
		}
		moldables = append(moldables, dao.MoldableDAOInfo{
			ID:       moldable.GetID(),
			Walltime: moldable.GetWalltime(),
			Requests: requests,
		})
	}
	return &dao.JobDAOInfo{
		ID:        job.GetJobID(),
		Queue:     job.GetQueue(),
		Name:      job.GetName(),
		Project:   job.GetProject(),
		User:      job.GetUser(),
		State:     job.GetState().String(),
		Assigned:  job.IsAssigned(),
		Granted:   job.GetGrantedResources().Intervals(),
		Moldables: moldables,
	}
}
