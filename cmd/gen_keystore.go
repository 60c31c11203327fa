package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zinc-sig/fluttertools/cmd/config"
	"github.com/zinc-sig/fluttertools/cmd/helpers"
	"github.com/zinc-sig/fluttertools/internal/keystore"
	"github.com/zinc-sig/fluttertools/internal/output"
)

func newGenKeystoreCmd() *cobra.Command {
	flags := &config.KeystoreFlags{}

	keystoreCmd := &cobra.Command{
		Use:   "gen-keystore",
		Short: "Generate the Android release keystore with keytool",
		Long: `Generate an Android release keystore.

Passwords come from key.properties (storePassword, keyPassword). The key alias
comes from --alias or, when omitted, from android.template_vars.key_alias in
the pkl app config. An existing keystore is kept unless --force is given.`,
		Args: helpers.UsageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := keystore.NewGenerator(newCommander(), helpers.Logger("gen-keystore"))
			created, err := gen.Generate(cmd.Context(), keystore.Options{
				PropsPath:  flags.Props,
				OutputPath: flags.Output,
				Alias:      flags.Alias,
				ConfigPath: flags.Config,
				Dname:      flags.Dname,
				Force:      flags.Force,
			})
			if err != nil {
				return err
			}
			if created {
				output.PrintSuccess("Keystore generated at %s", flags.Output)
			}
			return nil
		},
	}
	keystoreCmd.Flags().StringVar(&flags.Props, "props", "platforms/android/key.properties", "Path to key.properties")
	keystoreCmd.Flags().StringVar(&flags.Output, "output", "platforms/android/keystore.jks", "Path of the keystore to create")
	keystoreCmd.Flags().StringVar(&flags.Alias, "alias", "", "Key alias (default: read from the app config)")
	keystoreCmd.Flags().StringVar(&flags.Config, "config", "app.pkl", "pkl app config holding android.template_vars.key_alias")
	keystoreCmd.Flags().StringVar(&flags.Dname, "dname", keystore.DefaultDname, "Distinguished name of the certificate")
	keystoreCmd.Flags().BoolVar(&flags.Force, "force", false, "Overwrite an existing keystore")

	return keystoreCmd
}
