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
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/oar-team/oar-scheduler-redox/pkg/log"
)

// ----------------------------------
// pass events
// these events drive one scheduling pass over the platform
// ----------------------------------
type PassEvent int

const (
	InitPass PassEvent = iota
	RecordPass
	CollectPass
)

func (pe PassEvent) String() string {
	return [...]string{"InitPass", "RecordPass", "CollectPass"}[pe]
}

// ----------------------------------
// pass states
// ----------------------------------
type PassState int

const (
	Created PassState = iota
	Ready
	Saved
	Collected
)

func (ps PassState) String() string {
	return [...]string{"Created", "Ready", "Saved", "Collected"}[ps]
}

func NewPassState() *fsm.FSM {
	return fsm.NewFSM(
		Created.String(), fsm.Events{
			{
				Name: InitPass.String(),
				Src:  []string{Created.String()},
				Dst:  Ready.String(),
			}, {
				Name: RecordPass.String(),
				Src:  []string{Ready.String(), Saved.String()},
				Dst:  Saved.String(),
			}, {
				Name: CollectPass.String(),
				Src:  []string{Ready.String(), Saved.String(), Collected.String()},
				Dst:  Collected.String(),
			},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, event *fsm.Event) {
				log.Log(log.Platform).Info("pass transition",
					zap.Any("pass", event.Args[0]),
					zap.String("source", event.Src),
					zap.String("destination", event.Dst),
					zap.String("event", event.Event))
			},
		},
	)
}
