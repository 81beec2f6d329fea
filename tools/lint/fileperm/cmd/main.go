// Command fileperm-lint checks for hardcoded file permissions.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/bojanraic/loko/tools/lint/fileperm"
)

func main() {
	singlechecker.Main(fileperm.Analyzer)
}
