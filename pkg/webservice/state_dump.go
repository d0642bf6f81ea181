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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oar-team/oar-scheduler-redox/pkg/locking"
	"github.com/oar-team/oar-scheduler-redox/pkg/webservice/dao"
)

var stateDump locking.Mutex // ensures only one state dump can be handled at a time

func getFullStateDump(w http.ResponseWriter, r *http.Request) {
	writeHeaders(w)
	if err := doStateDump(w); err != nil {
		buildJSONErrorResponse(w, err.Error(), http.StatusInternalServerError)
	}
}

func doStateDump(w io.Writer) error {
	stateDump.Lock()
	defer stateDump.Unlock()

	bp := getPlatform()
	if bp == nil {
		return fmt.Errorf("no platform loaded")
	}

	var latest *dao.RunReportDAOInfo
	if history := getHistory(); history != nil {
		if record := history.Latest(); record != nil {
			latest = getRunReportDAO(record)
		}
	}

	aggregated := dao.AggregatedStateInfo{
		Timestamp:    time.Now().UnixNano(),
		RunID:        bp.GetRunID(),
		PassState:    bp.CurrentPassState(),
		Resources:    getResourceSetDAO(bp.GetResourceSet()),
		Jobs:         getJobsDAO(bp),
		LatestReport: latest,
	}
	return json.NewEncoder(w).Encode(aggregated)
}
