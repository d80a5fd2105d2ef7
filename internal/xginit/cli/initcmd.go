package cli

import "github.com/spf13/cobra"

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Bring up the 10GbE core with the stored MAC address",
		Long: "Runs the full bring-up sequence: holds the 10GbE core in reset, applies\n" +
			"the configured PHY register writes over MDIO, programs the MAC address\n" +
			"stored in the EEPROM, releases reset, and verifies the core picked the\n" +
			"address up. On verification failure the core is put back into reset.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newApp().Initialize()
		},
	}
}
