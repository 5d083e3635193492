package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/econswarm/internal/agent"
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the available analysis domains",
	Run: func(cmd *cobra.Command, args []string) {
		for _, d := range agent.DefaultDomains {
			fmt.Println(d)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}
