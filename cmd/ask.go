/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/ayuroot-be/relay"
	"github.com/tieubaoca/ayuroot-be/service"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the wellness advisor one question",
	Long:  `Sends one message to the streaming model and prints the reply paced the same way the stream endpoint sends it`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ai, closeFn, err := newAIService(cmd.Context(), cfg, cfg.AI.Models.Stream)
		if err != nil {
			return err
		}
		defer closeFn()

		chat := service.NewChatService(ai, ai, nil, cfg.AI.Timeout)
		encoder := relay.NewEncoder(cfg.Stream.ChunkSize, cfg.Stream.ChunkDelay)
		return ask(cmd, chat, encoder, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func ask(cmd *cobra.Command, chat service.ChatService, encoder *relay.Encoder, message string) error {
	text, err := chat.StreamReply(cmd.Context(), message)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	err = encoder.Relay(cmd.Context(), text, func(chunk string) error {
		_, err := io.WriteString(out, chunk)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}
