package main

import (
	"os"
	"strings"

	"checktree/internal/cli"

	"github.com/joho/godotenv"
)

func isTreeID(s string) bool {
	s = strings.TrimSpace(s)
	// Keep it permissive; ids are generated but users may paste variants.
	return strings.HasPrefix(s, "tree-") && len(s) > len("tree-")
}

// rewriteDirectTreeArgs turns `checktree <tree-id>` into `checktree tui
// <tree-id>`. Cobra treats the first non-flag token as a subcommand, so argv
// is rewritten before parsing. Persistent flags may come first.
func rewriteDirectTreeArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Flags we don't recognize are skipped without consuming a value, so a
	// tree id is never swallowed.
	valueFlags := map[string]bool{
		"--dir":    true,
		"--format": true,
	}
	boolFlags := map[string]bool{
		"--pretty":     true,
		"--optimistic": true,
	}

	insertAt := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "tui")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			// Everything after is positional; the subcommand must come first.
			if i+1 < len(argv) && isTreeID(argv[i+1]) {
				return insertAt(i)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && !boolFlags[a] && valueFlags[a] {
				i++
			}
			continue
		case isTreeID(a):
			return insertAt(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	// Optional: a .env in the working directory can set CHECKTREE_* defaults.
	_ = godotenv.Load()

	os.Args = rewriteDirectTreeArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
