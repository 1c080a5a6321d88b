// Command repal reverse-engineers combinatorial PAL equations from a raw
// EPROM dump. See pkg/engine for the pipeline and cmd/repal/cmd for the
// CLI surface.
package main

import "github.com/clintkolodziej/repal/cmd/repal/cmd"

func main() {
	cmd.Execute()
}
