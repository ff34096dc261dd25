package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/agentdesk/agentdesk/internal/agents"
	"github.com/agentdesk/agentdesk/internal/chat"
	"github.com/agentdesk/agentdesk/internal/config"
	deskerrors "github.com/agentdesk/agentdesk/internal/errors"
	"github.com/agentdesk/agentdesk/internal/llm"
	"github.com/agentdesk/agentdesk/internal/manifest"
	"github.com/agentdesk/agentdesk/internal/userctx"
	"github.com/agentdesk/agentdesk/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "agentdesk",
		Usage:   "Desktop agent manifests, compiled to prompts",
		Version: Version,
		Commands: []*cli.Command{
			agentCmd(db, cfg),
			contextCmd(db, cfg),
			overrideCmd(db),
			memoryCmd(db, cfg),
			chatCmd(db, cfg),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// agentCmd groups agent manifest commands.
func agentCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "agent",
		Usage: "Manage agent manifests",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all agents, built-in first",
				Action: func(c *cli.Context) error {
					repo := agents.NewRepository(db, cfg)
					all, err := repo.All()
					if err != nil {
						return outputError(err)
					}
					remaining, err := repo.RemainingSlots()
					if err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{
						"agents":          all,
						"remaining_slots": remaining,
					})
				},
			},
			{
				Name:      "get",
				Usage:     "Fetch one agent manifest",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					agent, err := agents.NewRepository(db, cfg).Get(c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(agent)
				},
			},
			{
				Name:  "save",
				Usage: "Create or update a user agent (reads manifest JSON from stdin)",
				Action: func(c *cli.Context) error {
					if !stdinHasData() {
						return outputError(deskerrors.NewInvalidRequest("manifest JSON must be piped via stdin"))
					}
					raw, err := readStdin()
					if err != nil {
						return outputError(deskerrors.NewInternal(err))
					}
					var m manifest.AgentManifest
					if err := json.Unmarshal([]byte(raw), &m); err != nil {
						return outputError(deskerrors.NewInvalidRequest("invalid manifest JSON"))
					}
					if err := agents.NewRepository(db, cfg).Save(&m); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"saved": true, "id": m.ID})
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a user agent",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id := c.Args().First()
					if err := agents.NewRepository(db, cfg).Delete(id); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"deleted": true, "id": id})
				},
			},
			{
				Name:      "duplicate",
				Usage:     "Duplicate a user agent",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					dup, err := agents.NewRepository(db, cfg).Duplicate(c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(dup)
				},
			},
			{
				Name:      "compile",
				Usage:     "Compile an agent's manifest into its system prompt",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "personalized", Aliases: []string{"p"}, Usage: "Include user context and override"},
				},
				Action: func(c *cli.Context) error {
					agent, err := agents.NewRepository(db, cfg).Get(c.Args().First())
					if err != nil {
						return outputError(err)
					}
					var prompt string
					if c.Bool("personalized") {
						gateway := chat.NewGateway(db, cfg, nil)
						prompt, err = gateway.ComposeSystem(&agent.AgentManifest)
						if err != nil {
							return outputError(err)
						}
					} else {
						prompt = manifest.BuildSystemPrompt(&agent.AgentManifest)
					}
					fmt.Println(prompt)
					return nil
				},
			},
		},
	}
}

// contextCmd groups user context commands.
func contextCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "context",
		Usage: "Manage the user context profile",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the stored user context",
				Action: func(c *cli.Context) error {
					ctx, err := userctx.NewContextStore(db).Get()
					if err != nil {
						return outputError(err)
					}
					if ctx == nil {
						return outputError(deskerrors.NewNotFound("user context"))
					}
					return outputJSON(ctx)
				},
			},
			{
				Name:  "set",
				Usage: "Overwrite the user context (reads JSON from stdin)",
				Action: func(c *cli.Context) error {
					if !stdinHasData() {
						return outputError(deskerrors.NewInvalidRequest("context JSON must be piped via stdin"))
					}
					raw, err := readStdin()
					if err != nil {
						return outputError(deskerrors.NewInternal(err))
					}
					var ctx userctx.UserContext
					if err := json.Unmarshal([]byte(raw), &ctx); err != nil {
						return outputError(deskerrors.NewInvalidRequest("invalid context JSON"))
					}
					if err := userctx.NewContextStore(db).Save(&ctx); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"saved": true})
				},
			},
			{
				Name:  "serialize",
				Usage: "Serialize the context as an agent would see it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "agent", Aliases: []string{"a"}, Usage: "Agent whose projection to use"},
				},
				Action: func(c *cli.Context) error {
					ctx, err := userctx.NewContextStore(db).Get()
					if err != nil {
						return outputError(err)
					}
					fmt.Println(userctx.Serialize(ctx, c.String("agent")))
					return nil
				},
			},
			{
				Name:  "templates",
				Usage: "List the built-in context templates",
				Action: func(c *cli.Context) error {
					return outputJSON(userctx.Templates())
				},
			},
			{
				Name:      "apply-template",
				Usage:     "Merge a template over the stored context",
				ArgsUsage: "<template-id>",
				Action: func(c *cli.Context) error {
					tmpl, ok := userctx.GetTemplate(c.Args().First())
					if !ok {
						return outputError(deskerrors.NewNotFound(c.Args().First()))
					}
					store := userctx.NewContextStore(db)
					existing, err := store.Get()
					if err != nil {
						return outputError(err)
					}
					merged := userctx.ApplyTemplate(tmpl, existing)
					if err := store.Save(merged); err != nil {
						return outputError(err)
					}
					return outputJSON(merged)
				},
			},
		},
	}
}

// overrideCmd groups per-agent override commands.
func overrideCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "override",
		Usage: "Manage per-agent instruction overrides",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show all overrides",
				Action: func(c *cli.Context) error {
					overrides, err := userctx.NewOverrideStore(db).Get()
					if err != nil {
						return outputError(err)
					}
					return outputJSON(overrides)
				},
			},
			{
				Name:      "set",
				Usage:     "Set an agent's override (empty instructions remove it)",
				ArgsUsage: "<agent-id> <instructions>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(deskerrors.NewInvalidRequest("agent-id is required"))
					}
					instructions := strings.Join(c.Args().Slice()[1:], " ")
					if err := userctx.NewOverrideStore(db).Set(c.Args().First(), instructions); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"saved": true})
				},
			},
		},
	}
}

// memoryCmd groups conversation memory commands.
func memoryCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "memory",
		Usage: "Manage conversation memories",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List memories, optionally for one agent",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "agent", Aliases: []string{"a"}, Usage: "Filter by agent ID"},
				},
				Action: func(c *cli.Context) error {
					store := userctx.NewMemoryStore(db, cfg)
					if agentID := c.String("agent"); agentID != "" {
						memories, err := store.ForAgent(agentID)
						if err != nil {
							return outputError(err)
						}
						return outputJSON(memories)
					}
					memories, err := store.All()
					if err != nil {
						return outputError(err)
					}
					return outputJSON(memories)
				},
			},
			{
				Name:      "save",
				Usage:     "Record a memory for an agent",
				ArgsUsage: "<agent-id> <summary>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return outputError(deskerrors.NewInvalidRequest("agent-id and summary are required"))
					}
					err := userctx.NewMemoryStore(db, cfg).Save(userctx.Memory{
						AgentID: c.Args().First(),
						Summary: strings.Join(c.Args().Slice()[1:], " "),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"saved": true})
				},
			},
			{
				Name:  "clear",
				Usage: "Remove all memories",
				Action: func(c *cli.Context) error {
					if err := userctx.NewMemoryStore(db, cfg).Clear(); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"cleared": true})
				},
			},
		},
	}
}

// chatCmd creates the chat command.
func chatCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "chat",
		Usage:     "Send one message to an agent",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "agent", Aliases: []string{"a"}, Usage: "Agent to chat with"},
			&cli.BoolFlag{Name: "raw", Usage: "Skip the system prompt"},
		},
		Action: func(c *cli.Context) error {
			message := strings.Join(c.Args().Slice(), " ")
			if message == "" && stdinHasData() {
				var err error
				message, err = readStdin()
				if err != nil {
					return outputError(deskerrors.NewInternal(err))
				}
			}
			if message == "" {
				return outputError(deskerrors.NewInvalidRequest("message is required"))
			}

			client, err := llm.New(cfg.Provider)
			if err != nil {
				return outputError(err)
			}

			mode := ""
			if c.Bool("raw") {
				mode = "raw"
			}

			content, err := chat.NewGateway(db, cfg, client).Complete(c.Context, chat.Request{
				AgentID:  c.String("agent"),
				Mode:     mode,
				Messages: []llm.Message{{Role: "user", Content: message}},
			})
			if err != nil {
				return outputError(err)
			}
			fmt.Println(content)
			return nil
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8094, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			client, err := llm.New(cfg.Provider)
			if err != nil {
				return outputError(err)
			}
			srv := web.NewServer(db, cfg, client, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if deskErr, ok := err.(*deskerrors.DeskError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", deskErr.Code, deskErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
