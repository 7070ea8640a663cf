package main

import (
	"log"

	"v.io/x/lib/cmdline"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-cnv",
			Short:    "Tools for comparing CNV call sets",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdConcordance(),
				newCmdInheritance(),
			},
		})
}
