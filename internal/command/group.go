package command

import (
	"fmt"

	"yatube/internal/service"

	"github.com/spf13/cobra"
)

var (
	groupTitle       string
	groupSlug        string
	groupDescription string
)

// Groups have no HTTP surface; they are managed here.
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage post groups",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGroups(func(svc *service.GroupService) error {
			g, err := svc.Create(cmd.Context(), groupTitle, groupSlug, groupDescription)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created group %d %s\n", g.ID, g.Slug)
			return nil
		})
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a group, keeping its posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGroups(func(svc *service.GroupService) error {
			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s\n", args[0])
			return nil
		})
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGroups(func(svc *service.GroupService) error {
			groups, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, g := range groups {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
			}
			return nil
		})
	},
}

func withGroups(fn func(svc *service.GroupService) error) error {
	if err := requirePersistentStore(appCfg); err != nil {
		return err
	}
	st, err := openStores(appCfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(service.NewGroupService(st.groups))
}

func init() {
	groupCreateCmd.Flags().StringVar(&groupTitle, "title", "", "group title")
	groupCreateCmd.Flags().StringVar(&groupSlug, "slug", "", "unique url slug")
	groupCreateCmd.Flags().StringVar(&groupDescription, "description", "", "group description")
	_ = groupCreateCmd.MarkFlagRequired("title")
	_ = groupCreateCmd.MarkFlagRequired("slug")

	groupCmd.AddCommand(groupCreateCmd, groupDeleteCmd, groupListCmd)
	rootCmd.AddCommand(groupCmd)
}
