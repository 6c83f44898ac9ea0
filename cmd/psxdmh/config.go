package main

import "strings"

// scanConfigFlag looks for a "-config <path>" or "-config=<path>" pair in
// args without fully parsing them, so the config file's values can seed
// the option defaults before the command's own flags are registered.
func scanConfigFlag(args []string) string {
	for i, a := range args {
		if v, ok := strings.CutPrefix(a, "-config="); ok {
			return v
		}
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if (a == "-config" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
