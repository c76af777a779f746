package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/lattice/rpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags] <file>",
	Short: "Serve an editor over msgpack RPC on stdin/stdout",
	Long:  `Open file in a headless editor and answer out-of-process plugin requests on stdin/stdout until the stream ends`,
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("write", false, "write the document back to file on exit")
}

type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error {
	return errors.Join(os.Stdin.Close(), os.Stdout.Close())
}

func runServe(cmd *cobra.Command, args []string) error {
	path := args[0]
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	ed, err := openFile(appConfig, path, nil)
	if err != nil {
		return err
	}
	defer ed.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := rpc.NewServer(ed, stdio{Reader: os.Stdin, Writer: os.Stdout})
	log.Infof("serving %s", path)
	if err := srv.Serve(ctx); err != nil {
		return err
	}
	if !write {
		return nil
	}
	return save(context.Background(), ed, path)
}
