// Copyright 2023 Pardata, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

/*
Package shuffle provides the collective primitives of a fixed worker
group and the two-phase all-to-all exchange built on top of them.

Execution is single-program-multiple-data: every worker runs the same
code and every collective call (sum, gather, broadcast, all-to-all) is
a synchronization barrier. All workers must invoke the same collectives
in the same relative order with compatible shapes; a worker that skips
a collective stalls the whole group. There is deliberately no timeout
or cancellation: a collective with partial completion leaves no worker
in a self-consistent state, so recovery is a job-level concern.

The Exchanger realizes one shuffle: a fixed-size exchange of row
counts, then a variable-size exchange of payload frames. Every column
of a sort call goes through payload exchange with the identical row
counts and displacements, which is what keeps heterogeneous columns
aligned to their keys across a transfer that only understands byte
ranges. Frames carry a checksum and may be compressed; a frame whose
row count disagrees with the counts exchange is a protocol violation
and fatal to the call.

The in-process Fabric connects workers running as goroutines of one
process. It exists for embedding and tests; any transport implementing
Comm (e.g. MPI or TCP) can replace it.
*/
package shuffle
