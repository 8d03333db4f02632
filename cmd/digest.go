package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docbot/config"
	"docbot/internal/digest"
	"docbot/internal/profile/redisstore"
	"docbot/internal/search"
	"docbot/provider"
	"docbot/tools/web_search"
)

// digestCMD generates one digest for a user and prints it, without going
// through the chat webhook. Useful for trying prompt or search changes.
func digestCMD() *cobra.Command {
	var cfgPath string
	var cmd = &cobra.Command{
		Use:   "digest <user>",
		Short: "Generate a weekly digest for one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			ctx := context.Background()

			rdb, err := redisstore.Conn(ctx,
				cfg.Storage.Redis.Host, cfg.Storage.Redis.Port,
				cfg.Storage.Redis.Password, cfg.Storage.Redis.DB, cfg.Storage.Redis.Timeout)
			if err != nil {
				return err
			}
			prof, err := redisstore.New(rdb).Get(ctx, args[0])
			if err != nil {
				return err
			}

			llm, err := provider.NewProvider(cfg.LLM)
			if err != nil {
				return err
			}
			backend, err := web_search.NewBackend(cfg.Search)
			if err != nil {
				return err
			}
			engine := digest.NewEngine(cfg.Digest, llm, cfg.LLM.Temperature, search.NewAdapter(cfg.Search, backend))

			d, err := engine.WeeklyUpdate(ctx, prof)
			if err != nil {
				return err
			}
			fmt.Println(d.Text)
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return cmd
}
