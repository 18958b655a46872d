// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package fileops applies single-file mutations to the local disk.

	+-----------+        +-----------+
	| Executor  |        |  Undoer   |
	+-----+-----+        +-----+-----+
	      |                    |
	      +---------+----------+
	                |
	         +------+------+
	         | FileManager |
	         |  (os.* I/O) |
	         +-------------+

🎯 Purpose:
- Keep every os.* call behind one small interface
- Never overwrite an existing destination
- Create missing parent directories for destinations

⚡ Key Responsibilities:
- Rename: same-device move, refuses to clobber
- Copy: byte copy into a new file, source mode preserved
- Relocate: rename with a copy+remove fallback across devices (backups)
- Remove / Exists

Errors are returned wrapped; callers surface them as the failure reason of
the operation they were applying.
*/
package fileops
