// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/StartiOne/snort3/internal/config"
	"github.com/StartiOne/snort3/internal/log"
)

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "snort3-codec",
	Short: "Layered packet codec engine for intrusion detection",
	Long: `snort3-codec decodes arbitrarily nested protocol stacks from raw
captured frames and re-encodes response packets layer by layer, using
per-protocol codec plugins (Ethernet, VLAN, ARP, MPLS, IPv4/6, TCP,
UDP, ICMP).`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		log.Init(cfg.Log)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(configCmd)
}
