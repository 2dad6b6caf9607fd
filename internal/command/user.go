package command

import (
	"fmt"

	"yatube/internal/service"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a user together with their posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePersistentStore(appCfg); err != nil {
			return err
		}
		st, err := openStores(appCfg)
		if err != nil {
			return err
		}
		defer st.Close()

		tokens, closeTokens, err := openTokenStore(appCfg.Redis)
		if err != nil {
			return err
		}
		defer closeTokens()

		svc := service.NewUserService(st.users, tokens, nil, nil)
		if err := svc.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", args[0])
		return nil
	},
}

func init() {
	userCmd.AddCommand(userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}
