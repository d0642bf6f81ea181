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

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestWaitFor(t *testing.T) {
	// condition that holds immediately
	err := WaitFor(time.Millisecond, 100*time.Millisecond, func() bool { return true })
	assert.NilError(t, err, "condition held, no error expected")

	// condition that never holds
	err = WaitFor(time.Millisecond, 50*time.Millisecond, func() bool { return false })
	assert.ErrorContains(t, err, "timeout", "expected a timeout error")

	// condition that holds after a few polls
	count := 0
	err = WaitFor(time.Millisecond, time.Second, func() bool {
		count++
		return count > 3
	})
	assert.NilError(t, err, "condition held after polls, no error expected")
}

func TestGetNewUUID(t *testing.T) {
	first := GetNewUUID()
	second := GetNewUUID()
	assert.Equal(t, 36, len(first), "uuid string has canonical length")
	assert.Assert(t, first != second, "consecutive uuids must differ")
}
