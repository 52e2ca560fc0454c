package commands

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/wherein/pkg/dataset"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(wherein completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(wherein completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// countryCompletions completes from the bundled dataset so the shell never
// waits on the network.
func countryCompletions(toComplete string) []string {
	prefix := strings.ToLower(strings.Trim(toComplete, `"`))
	var names []string
	for _, c := range dataset.Fallback() {
		name := c.CommonName()
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for i := range names {
		if strings.Contains(names[i], " ") {
			names[i] = strconv.Quote(names[i])
		}
	}
	return names
}

func regionCompletions(toComplete string) []string {
	prefix := strings.ToLower(toComplete)
	seen := map[string]bool{}
	var regions []string
	for _, c := range dataset.Fallback() {
		r := c.Region
		if r == "" || seen[r] || !strings.HasPrefix(strings.ToLower(r), prefix) {
			continue
		}
		seen[r] = true
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}
