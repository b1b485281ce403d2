package cache

import (
	"github.com/spf13/cobra"
)

var limitFlag int

var CacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage stored geocode results",
}
