/*
Package operation applies batches of filesystem mutations and reverses them.

	+-------------------+      +-----------+      +-------------+
	| PlannedOperation  | ---> | Executor  | ---> | FileManager |
	|  (move/copy/...)  |      +-----+-----+      +-------------+
	+-------------------+            |
	                                 v
	                          +------+------+
	                          |     Log     |  (history.SQLiteStore)
	                          +------+------+
	                                 ^
	                                 |
	                           +-----+-----+
	                           |  Undoer   |
	                           +-----------+

🎯 Purpose:
- Execute planned operations one at a time, in submission order
- Record every attempt, successful or not, under one batch id
- Reverse the most recent completed operations on request

🔄 Flow:
1. Executor emits a "processing" event, applies the item, records it
2. A failing item becomes Failed(reason) and the batch carries on
3. A final "completed" event closes the batch
4. Undoer asks the log for completed records, newest first, and reverses them

⚡ Key Responsibilities:
- Delete relocates the file under the backup directory and keeps BackupPath
- Undo never clobbers: an occupied original location skips the item
- Skipped items stay Completed so a later undo can retry them

🤝 Interfaces:
- Log: durable ledger (Append, RecentCompleted, MarkUndone)
- fileops.FileManager: the actual disk mutations
- progress.Reporter: best-effort progress events

🔍 Example:

	exec, err := operation.NewExecutor(operation.Options{
		Log:       store,
		Files:     fileops.New(),
		BackupDir: cfg.BackupDir,
	})
	results := exec.Execute(ctx, planned, progress.Nop{})

	undoer, err := operation.NewUndoer(operation.Options{Log: store, Files: fileops.New()})
	undone, err := undoer.Undo(ctx, 1)
*/
package operation
