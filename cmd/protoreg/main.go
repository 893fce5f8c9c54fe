// Command protoreg manages document templates built on the prototype
// registry: narrated demos, a persistent template catalog and bundle
// export/import.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
