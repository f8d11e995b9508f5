/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"github.com/rancher-sandbox/cocoup/pkg/cli"
)

func main() {
	cli.Execute()
}
