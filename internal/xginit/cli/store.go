package cli

import "github.com/spf13/cobra"

func newStoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "store <mac-address>",
		Short: "Write a MAC address into the EEPROM",
		Long: "Validates a MAC address against the configured policy, writes it into\n" +
			"the board's EEPROM, and reads it back to confirm the write took.\n\n" +
			"The address is given as six colon-separated hex octets,\n" +
			"for example aa:bb:cc:dd:ee:ff.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newApp().Store(args[0])
		},
	}
}
