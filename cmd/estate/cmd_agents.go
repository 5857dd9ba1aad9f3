package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rajivgeraev/estatepro/internal/api"
	"github.com/rajivgeraev/estatepro/internal/models"
)

var (
	agentName     string
	agentPhone    string
	agentPassword string
)

// agentsCmd is the parent command for agent management (admins only)
var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Manage agents (admins only)",
	Long: `Manage agent accounts. Requires an admin session.

Available subcommands:
  list   - List all agents
  create - Create an agent
  update - Update an agent
  delete - Delete an agent and their properties`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd, args); err != nil {
			return err
		}
		return application.RequireAdmin()
	},
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all agents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		agents, err := application.API.ListAgents(ctx)
		if err != nil {
			return fmt.Errorf("failed to list agents: %s", api.Message(err))
		}
		printUsers(cmd.OutOrStdout(), agents)
		return nil
	},
}

var agentsCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create an agent",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgentsCreate,
}

var agentsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an agent's name, email, phone or password",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgentsUpdate,
}

var agentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an agent and their properties",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := application.API.DeleteAgent(ctx, id); err != nil {
			return fmt.Errorf("failed to delete agent: %s", api.Message(err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Agent %d deleted.\n", id)
		return nil
	},
}

func init() {
	agentsCreateCmd.Flags().StringVar(&agentName, "name", "", "Agent name (required)")
	agentsCreateCmd.Flags().StringVar(&agentPhone, "phone", "", "Agent phone")
	agentsCreateCmd.Flags().StringVar(&agentPassword, "password", "", "Initial password (required)")
	_ = agentsCreateCmd.MarkFlagRequired("name")
	_ = agentsCreateCmd.MarkFlagRequired("password")

	agentsCmd.AddCommand(agentsListCmd)
	agentsCmd.AddCommand(agentsCreateCmd)
	agentsUpdateCmd.Flags().String("name", "", "New name")
	agentsUpdateCmd.Flags().String("email", "", "New email")
	agentsUpdateCmd.Flags().String("phone", "", "New phone")
	agentsUpdateCmd.Flags().String("password", "", "New password")

	agentsCmd.AddCommand(agentsUpdateCmd)
	agentsCmd.AddCommand(agentsDeleteCmd)
}

func runAgentsCreate(cmd *cobra.Command, args []string) error {
	in := models.UserCreate{Email: args[0], Name: agentName, Password: agentPassword}
	if agentPhone != "" {
		in.Phone = &agentPhone
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	agent, err := application.API.CreateAgent(ctx, in)
	if err != nil {
		return fmt.Errorf("failed to create agent: %s", api.Message(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Agent %d created: %s <%s>\n", agent.ID, agent.Name, agent.Email)
	return nil
}

func runAgentsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	in, err := userUpdateFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	agent, err := application.API.UpdateAgent(ctx, id, in)
	if err != nil {
		return fmt.Errorf("failed to update agent: %s", api.Message(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Agent %d updated: %s <%s>\n", agent.ID, agent.Name, agent.Email)
	return nil
}
