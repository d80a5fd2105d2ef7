package cli

import "github.com/spf13/cobra"

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query",
		Short: "Read and print the MAC address stored in the EEPROM",
		Long: "Reads the MAC address out of the board's EEPROM and prints it.\n" +
			"The exit status is non-zero when the stored address fails the\n" +
			"configured address policy, so scripts can gate on it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newApp().Query()
		},
	}
}
