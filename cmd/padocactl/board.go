package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ivens03/microservices-padoca/internal/board"
	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func boardCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Staff order board",
	}
	cmd.AddCommand(boardWatchCmd(flags), boardAdvanceCmd(flags))
	return cmd
}

func boardWatchCmd(flags *globalFlags) *cobra.Command {
	var (
		interval time.Duration
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the open orders, refreshing until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			sess, err := a.current(cmd.Context())
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = a.cfg.Board.PollInterval
			}

			fetch := func(ctx context.Context) ([]model.Order, error) {
				return a.lifecycle.FetchQueue(ctx, sess)
			}
			p := board.NewPoller(interval, fetch, a.log.Named("board"))

			if once {
				snap, err := p.RefreshNow(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch queue: %w", err)
				}
				return a.renderBoard(snap)
			}

			p.OnUpdate(a.showBoard)
			p.Start(cmd.Context())
			<-cmd.Context().Done()
			p.Stop()
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (default from BOARD_POLL_INTERVAL)")
	cmd.Flags().BoolVar(&once, "once", false, "Print the board once and exit")
	return cmd
}

func boardAdvanceCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <order-id>",
		Short: "Move an order to its next status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			sess, err := a.current(cmd.Context())
			if err != nil {
				return err
			}

			if err := a.lifecycle.Advance(cmd.Context(), sess, uint(id)); err != nil {
				return fmt.Errorf("advance order %d: %w", id, err)
			}

			// Render whatever the queue is now; a failed fetch shows an empty board
			queue, _ := a.lifecycle.FetchQueue(cmd.Context(), sess)
			return a.renderBoard(board.Snapshot{Orders: queue, UpdatedAt: time.Now()})
		},
	}
}

// showBoard renders a watched board; output errors are logged so watching goes on
func (a *app) showBoard(s board.Snapshot) {
	if err := a.renderBoard(s); err != nil {
		a.log.Warn("Render failed", zap.Error(err))
	}
}
