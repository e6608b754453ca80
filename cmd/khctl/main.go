// Command khctl synthesizes helm values documents from layered INI
// sizing definitions and extracts sizing data from rendered kubernetes
// manifests.
package main

import "github.com/TomasBahnik/kube-helpers/pkg/cli"

func main() {
	cli.Execute()
}
