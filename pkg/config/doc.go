/*
Package config manages configuration parsing and validation for fileog.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+  +----+----+  +----+----+
	|   YAML   |  |  JSON   |  |   HCL   |
	|  Parser  |  | Parser  |  | Parser  |
	+----------+  +---------+  +---------+

🎯 Purpose:
- Locates the history database and backup directory (xdg data home by default)
- Picks the content hash algorithm
- Carries scan defaults (hidden files, recursion, ignore globs, mime sniffing)

🔄 Flow:
1. Reads configuration from file, or starts from Default when there is none
2. Parses format-specific syntax through the registered Parser
3. Validate fills derived paths and rejects unknown values

🔍 Example:

	cfg, err := config.Load(ctx, config.DefaultPath())
	if err != nil {
		return err
	}
	store, err := history.New(cfg.Database)
*/
package config
