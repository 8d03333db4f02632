package main

import (
	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{Use: "docbot"}

	root.AddCommand(serveCMD(), migrateCMD(), digestCMD())
	_ = root.Execute()
}
