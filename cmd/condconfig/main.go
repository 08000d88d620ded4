// Condconfig imports commerce environments and policy sets at bootstrap.
//
// It reads every JSON document under <root>/data/environments, classifies it
// by its "$type" discriminator and imports environments, policy sets and
// conditional policy sets whose conditions match the runtime app settings.
//
// Usage:
//
//	# Import once using condconfig.yaml
//	condconfig import
//
//	# Import from another web root and keep going past malformed documents
//	condconfig import --root /srv/commerce --on-malformed continue
//
//	# Show what an import would do
//	condconfig classify --output json
//
//	# Import, then re-import on file changes or a schedule
//	condconfig watch
//
//	# Show version information
//	condconfig version
package main

import (
	"fmt"
	"os"

	"mercator-hq/condconfig/pkg/cli"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}
