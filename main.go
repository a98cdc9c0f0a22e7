// SPDX-License-Identifier: MPL-2.0

package main

import cmd "anchor-cli/cmd/anchor"

func main() {
	cmd.Execute()
}
