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

package dao

// AggregatedStateInfo is the one-stop diagnostic dump: everything the other
// endpoints expose, stitched together with a timestamp.
type AggregatedStateInfo struct {
	Timestamp    int64               `json:"timestamp,omitempty"`
	RunID        string              `json:"runId,omitempty"`
	PassState    string              `json:"passState,omitempty"`
	Resources    *ResourceSetDAOInfo `json:"resources,omitempty"`
	Jobs         []*JobDAOInfo       `json:"jobs,omitempty"`
	LatestReport *RunReportDAOInfo   `json:"latestReport,omitempty"`
}
