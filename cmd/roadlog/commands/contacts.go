package commands

import (
	"fmt"

	"github.com/dyluth/roadlog/internal/contacts"
	"github.com/dyluth/roadlog/internal/printer"
	"github.com/spf13/cobra"
)

var contactsOutputFormat string

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Show emergency numbers",
	Long: `Show the emergency numbers directory.

The built-in list (Police 17, Pompiers 18, Samu 15, Urgences Européennes 112)
is replaced by the contacts section of roadlog.yml when one is configured.`,
	Args: cobra.NoArgs,
	RunE: runContacts,
}

func init() {
	contactsCmd.Flags().StringVarP(&contactsOutputFormat, "output", "o", "default", "Output format: default or json")
	rootCmd.AddCommand(contactsCmd)
}

func runContacts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	switch contactsOutputFormat {
	case "default":
		contacts.FormatTable(printer.Out(), cfg.Contacts)
		return nil
	case "json":
		return contacts.FormatJSON(printer.Out(), cfg.Contacts)
	default:
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", contactsOutputFormat),
			[]string{"Valid formats: default, json"},
		)
	}
}
