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
	"testing"

	"gotest.tools/v3/assert"
)

func TestInternalMetricsHistory(t *testing.T) {
	hist := NewInternalMetricsHistory(2)
	assert.Equal(t, hist.GetLimit(), 2)
	assert.Equal(t, len(hist.GetRecords()), 0)

	hist.Store(1, 3)
	records := hist.GetRecords()
	assert.Equal(t, len(records), 1)
	assert.Equal(t, records[0].TotalPasses, 1)
	assert.Equal(t, records[0].TotalAssignedJobs, 3)

	hist.Store(2, 5)
	hist.Store(3, 8)
	records = hist.GetRecords()
	assert.Equal(t, len(records), 2)

	// oldest sample evicted first
	assert.Equal(t, records[0].TotalPasses, 2)
	assert.Equal(t, records[0].TotalAssignedJobs, 5)
	assert.Equal(t, records[1].TotalPasses, 3)
	assert.Equal(t, records[1].TotalAssignedJobs, 8)
	assert.Assert(t, !records[1].Timestamp.Before(records[0].Timestamp))
}
