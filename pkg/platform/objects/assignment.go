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

package objects

import (
	"fmt"

	"github.com/oar-team/oar-scheduler-redox/pkg/common"
	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
)

// UnsetTime marks a timing field the engine never filled in.
const UnsetTime int64 = -1

// Assignment is one placement decision written back by the engine: which
// moldable of which job runs where and when. Walltime carries the chosen
// moldable's duration so the end of the occupation interval can be derived
// without resolving the job again.
type Assignment struct {
	JobID      int64
	MoldableID int64
	Resources  procset.ProcSet
	StartTime  int64
	Walltime   int64
}

// End returns the last occupied second, start + walltime - 1. Only
// meaningful when IsComplete holds.
func (a Assignment) End() int64 {
	return a.StartTime + a.Walltime - 1
}

// IsComplete reports whether both timing fields were filled in by the
// engine. Incomplete assignments are skipped at collection time.
func (a Assignment) IsComplete() bool {
	return a.StartTime != UnsetTime && a.Walltime > 0
}

// Check returns IncompleteAssignment when a timing field was never filled in.
func (a Assignment) Check() error {
	if !a.IsComplete() {
		return fmt.Errorf("%w: start %d, walltime %d",
			common.IncompleteAssignment, a.StartTime, a.Walltime)
	}
	return nil
}

func (a Assignment) String() string {
	return fmt.Sprintf("jobID %d, moldableID %d, start %d, walltime %d, resources %s",
		a.JobID, a.MoldableID, a.StartTime, a.Walltime, a.Resources.String())
}
