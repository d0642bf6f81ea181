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

package common

import "errors"

var (
	// InvalidTopology returned when the default interval list is empty or malformed,
	// or a hierarchy partition does not subdivide the default range exactly.
	// Fatal: a malformed snapshot cannot produce a meaningful benchmark.
	InvalidTopology = errors.New("invalid resource topology")
	// InvalidJob returned when a pending job record cannot be translated, for
	// example an empty moldable list or a duplicate job id. Fatal for the whole
	// batch: a partially translated batch is not a valid benchmark input.
	InvalidJob = errors.New("invalid job record")
	// IncompleteAssignment returned when an assignment misses start time or
	// walltime. Recoverable: the record is skipped, the report is still produced.
	IncompleteAssignment = errors.New("assignment missing required timing fields")
)
